package notesdk

// SetCSRFTokenForTesting overwrites the remembered CSRF token.
func (c *SDKClient) SetCSRFTokenForTesting(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}
