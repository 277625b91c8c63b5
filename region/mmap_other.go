//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package region

// Map falls back to New where anonymous mappings are not wired up.
func Map(length uint) (*Region, error) {
	return New(length)
}
