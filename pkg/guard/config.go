package guard

// Config holds guard configuration.
type Config struct {
	SignInPath  string `env:"AUTH_SIGNIN_PATH" envDefault:"/auth/sign-in"`
	HomePath    string `env:"AUTH_HOME_PATH" envDefault:"/"`
	ReturnParam string `env:"AUTH_RETURN_PARAM" envDefault:"from"`
}

// NewFromConfig creates a Guard from cfg. Options are applied after the config values.
func NewFromConfig(cfg Config, opts ...Option) *Guard {
	return New(append([]Option{
		WithSignInPath(cfg.SignInPath),
		WithHomePath(cfg.HomePath),
		WithReturnParam(cfg.ReturnParam),
	}, opts...)...)
}
