// Package pattern parses LIKE-style wildcard patterns ('%' and '_') into
// the small structural form the matching engine dispatches on.
package pattern
