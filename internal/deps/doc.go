// Package deps locates the external programs harextract shells out to.
package deps
