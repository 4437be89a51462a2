//go:build !windows

package clipboard

// NewSystem returns the clipboard host for this platform
func NewSystem() (System, error) {
	h, err := NewDesignHost()
	if err != nil {
		return nil, err
	}
	return h, nil
}
