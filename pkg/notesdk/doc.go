/*
Package notesdk provides a Go client for the notes service and the wire types
shared with its HTTP handlers.

# SDKClient vs Session

  - SDKClient: public endpoints (health, CSRF token, signup, login)
  - Session: everything that needs the access token issued at login

An SDKClient owns a cookie jar, so it behaves like a single browser. The CSRF
double-submit check needs the cookie set by the csrf-token endpoint and the
same value echoed in the X-CSRF-Token header; the client fetches a token on
the first unsafe request and retries once if the server rejects it.

	client := notesdk.NewSDKClient("http://localhost:5000")

	_, err := client.Signup(ctx, notesdk.SignupRequest{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Abcdef1!",
	})

	session, err := client.Login(ctx, "alice", "Abcdef1!")

	note, err := session.CreateNote(ctx, "Groceries", "milk, eggs")
	notes, err := session.ListNotes(ctx)

	err = session.Logout(ctx)

# Errors

Non-2xx responses are returned as *httpx.APIError. Use IsErrorCode,
StatusCode and RetryAfter to inspect them:

	if notesdk.IsErrorCode(err, notesdk.ErrorCodeTooManyAttempts) {
		time.Sleep(notesdk.RetryAfter(err))
	}
*/
package notesdk
