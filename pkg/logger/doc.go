// Package logger builds *slog.Logger instances for authkit components.
//
// New assembles a text or JSON handler from functional options and wraps it
// with LogHandlerDecorator, which appends attributes pulled from the record's
// context (see WithContextValue). Attribute helpers in attr.go keep key names
// consistent across packages:
//
//	log := logger.New(logger.WithEnvironment("production", "authctl"))
//	log.InfoContext(ctx, "sign-in succeeded",
//	    logger.Component("session"),
//	    logger.Attempt(id),
//	)
//
// Components that accept an optional logger fall back to Discard.
//
// Error returns an empty attribute for nil errors, so call sites can pass
// possibly-nil errors without a guard. Credentials and bearer tokens must
// never be passed to any helper here.
package logger
