// Package route names the navigation destinations of the application.
package route

// ID identifies a navigation destination
type ID string

const (
	Login     ID = "login"
	Bills     ID = "bills"
	NewBill   ID = "newBill"
	Dashboard ID = "dashboard"
)

var paths = map[ID]string{
	Login:     "/",
	Bills:     "#employee/bills",
	NewBill:   "#employee/bill/new",
	Dashboard: "#admin/dashboard",
}

// Path returns the client-side path of the route, or "/" for an unknown route
func (id ID) Path() string {
	if p, ok := paths[id]; ok {
		return p
	}
	return paths[Login]
}

// IsValid checks if the route is known
func (id ID) IsValid() bool {
	_, ok := paths[id]
	return ok
}

// String returns the string representation of ID
func (id ID) String() string {
	return string(id)
}

// FromPath resolves a client-side path back to its route
func FromPath(path string) (ID, bool) {
	for id, p := range paths {
		if p == path {
			return id, true
		}
	}
	return "", false
}
