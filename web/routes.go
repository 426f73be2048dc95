package web

// A View names a page of the front end.
type View string

// Views of the front end.
const (
	ViewHome         View = "Home"
	ViewThoughtBoard View = "ThoughtBoard"
)

// A Route maps a URL path to the view rendered for it.
type Route struct {
	Path  string
	View  View
	Title string
}

// Routes is the route table of the front end.
var Routes = []Route{
	{Path: "/", View: ViewHome, Title: "Home"},
	{Path: "/thoughts", View: ViewThoughtBoard, Title: "Thought Board"},
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func mustLookup(v View) Route {
	for _, r := range Routes {
		if r.View == v {
			return r
		}
	}
	panic("web: no route for view " + string(v))
}
