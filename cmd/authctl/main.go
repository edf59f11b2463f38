package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
)

const usage = `usage: authctl [-env-file path] <command> [flags]

commands:
  signin   -username u -password p   sign in and persist the session
  signup   -first f -last l -email e -password p
  signout                            clear the session
  status                             print the current session
  check    <path>                    evaluate the access guard for path
  serve    [-addr :8080]             run the HTTP demo host
`

func main() {
	os.Exit(run())
}

func run() int {
	var envFile string
	global := flag.NewFlagSet("authctl", flag.ContinueOnError)
	global.StringVar(&envFile, "env-file", "", "path to a .env file")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := global.Parse(os.Args[1:]); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		// A missing default .env is fine.
		_ = config.LoadEnv()
	}

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize", logger.Error(err))
		return 1
	}
	defer a.Close()

	cmd, args := global.Arg(0), global.Args()[1:]
	if err := dispatch(ctx, a, cmd, args); err != nil {
		if errors.Is(err, errUsage) {
			global.Usage()
			return 2
		}
		if errors.Is(err, errDenied) {
			return 3
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newLogger(cfg appConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			opts = append(opts, logger.WithLevel(level))
		}
	}
	opts = append(opts, logger.WithOutput(os.Stderr))
	return logger.New(opts...)
}

func dispatch(ctx context.Context, a *app, cmd string, args []string) error {
	switch cmd {
	case "signin":
		return cmdSignIn(ctx, a, args)
	case "signup":
		return cmdSignUp(ctx, a, args)
	case "signout":
		return cmdSignOut(ctx, a)
	case "status":
		return cmdStatus(a)
	case "check":
		return cmdCheck(ctx, a, args)
	case "serve":
		return cmdServe(ctx, a, args)
	default:
		return errUsage
	}
}
