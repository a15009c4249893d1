/*
Package rostersdk is a Go client for the roster membership service.

# Client vs Session

Client covers the public endpoints: health, departments, signup, the
emailed-code login and the one-time bootstrap. A successful login returns a
Session that carries the token pair and refreshes the access token shortly
before it expires:

	c := rostersdk.NewClient("https://roster.example.com")

	if err := c.RequestCode(ctx, "member@example.com"); err != nil {
		return err
	}
	session, err := c.VerifyCode(ctx, "member@example.com", code)
	if err != nil {
		return err
	}

	me, err := session.Me(ctx)

# Errors

Every failed call returns an *APIError carrying the HTTP status and the
envelope's error code, for example "throttled" with RetryAfter set, or
"validation_error" with per-field Details:

	var apiErr *rostersdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == rostersdk.CodeThrottled {
		time.Sleep(time.Duration(apiErr.RetryAfter) * time.Second)
	}

# Thread Safety

Sessions are safe for concurrent use. Token state is guarded by a
read/write lock and a refresh happens at most once per expiry.
*/
package rostersdk
