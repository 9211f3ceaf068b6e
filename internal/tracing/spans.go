package tracing

// Span attribute keys.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrURLPath        = "url.path"

	AttrUserID        = "user.id"
	AttrFieldErrors   = "registration.field_errors"
	AttrFirstBadField = "registration.first_field"
	AttrCacheHit      = "cache.hit"
)

// Span names for collaborator operations.
const (
	SpanAuthUser     = "auth.user"
	SpanAuthRegister = "auth.register"
	SpanAuthLogout   = "auth.logout"
	SpanAuthCSRF     = "auth.csrf"
)

// Event names for span events.
const (
	EventValidationFailed = "validation.failed"
	EventCacheInvalidated = "cache.invalidated"
)
