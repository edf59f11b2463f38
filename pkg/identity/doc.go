// Package identity is a client for the remote identity service that issues
// bearer tokens and user profiles.
//
// Three JSON-over-HTTP endpoints are used, each joined onto a configured base URL:
//
//	POST {base}/signin   {"username","password"}            -> token bundle
//	POST {base}/getuser  {"accessToken"}                    -> user profile
//	POST {base}/signup   {"firstName","lastName","password","email"} -> payload
//
// Sign-in is a two-step flow: credentials are exchanged for tokens, then the
// access token is used to fetch the profile. The token bundle may arrive nested
// under "AuthenticationResult" or at the top level; both shapes are accepted.
//
// Basic usage:
//
//	client, err := identity.New("https://id.example.com/auth",
//		identity.WithTimeout(10*time.Second),
//		identity.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	res, err := client.SignIn(ctx, identity.Credentials{Username: "a", Password: "b"})
//	if err != nil {
//		fmt.Println(identity.Message(err, identity.MsgSignInFailed))
//		return err
//	}
//
// Every failure is an *Error carrying a Kind and a user-facing Message. The
// message is the service's "error" field when present, otherwise a generic text.
// Use errors.Is with ErrTransport, ErrRejected, ErrMalformedResponse or
// ErrProfileFetch to branch on the kind.
//
// Request and response bodies, credentials and tokens are never logged.
package identity
