package application

// RequestContext carries the principal a request acts as. It is built once
// per request by the session middleware and passed by value; the zero value
// is anonymous.
type RequestContext struct {
	principal string
}

func NewRequestContext(principal string) RequestContext {
	return RequestContext{principal: principal}
}

// Anonymous is the context of a request without a resolvable session.
func Anonymous() RequestContext { return RequestContext{} }

// Principal returns the acting user id, if any.
func (rc RequestContext) Principal() (string, bool) {
	return rc.principal, rc.principal != ""
}

func (rc RequestContext) IsAuthenticated() bool { return rc.principal != "" }
