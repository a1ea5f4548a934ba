package gmail

// Headers carries the message header fields fetched for diagnostics before
// the full body is pulled.
type Headers struct {
	Subject string
	From    string
}
