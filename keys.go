package junction

type Key string

const (
	// CallIDKey stashes the ID of the navigation call being dispatched.
	CallIDKey Key = "CallIDKey"

	// IpAddrKey stashes the IP address of an HTTP request made to the control surface.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request made to the control surface.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "junction context key: " + string(k)
}
