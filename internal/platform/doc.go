// Package platform holds operating system specific file operations.
package platform
