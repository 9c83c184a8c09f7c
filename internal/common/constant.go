package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token inside the Authorization header.
const BearerPrefix = "Bearer "

// DefaultNoteSubject is assigned to notes created without a subject.
const DefaultNoteSubject = "General"
