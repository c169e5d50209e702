package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/fatih/color"
	"github.com/go-pkgz/fileutils"
	"github.com/go-pkgz/lgr"
	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/tg-linkcheck/app/moderator"
	"github.com/umputun/tg-linkcheck/app/notify"
	"github.com/umputun/tg-linkcheck/app/storage"
	"github.com/umputun/tg-linkcheck/app/storage/engine"
	"github.com/umputun/tg-linkcheck/app/visitor"
	"github.com/umputun/tg-linkcheck/app/webapi"
)

type options struct {
	DB       string `long:"db" env:"DB" default:"tg-linkcheck.db" description:"database, sqlite file or postgres:// url"`
	SpamList string `long:"spam-list" env:"SPAM_LIST" default:"data/spam-list.txt" description:"spam list file, reloaded on change"`

	Telegram struct {
		Token      string        `long:"token" env:"TOKEN" description:"telegram bot token, notifications disabled if not set"`
		ReviewChat int64         `long:"review-chat" env:"REVIEW_CHAT" description:"chat id of reviewers, gets reminders"`
		LogChat    int64         `long:"log-chat" env:"LOG_CHAT" description:"chat id for the review log"`
		Timeout    time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"http client timeout for telegram"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Visit struct {
		Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"7s" description:"hard limit for a site visit"`
		UserAgent string        `long:"user-agent" env:"USER_AGENT" default:"GoogleOther" description:"user agent of visits"`
		FailTTL   time.Duration `long:"fail-ttl" env:"FAIL_TTL" default:"10m" description:"don't revisit domains with failed visits for this long"`
		Retries   int           `long:"retries" env:"RETRIES" default:"1" description:"retries of a visit on connection errors and 5xx"`
	} `group:"visit" namespace:"visit" env-namespace:"VISIT"`

	Review struct {
		Reminder   time.Duration `long:"reminder" env:"REMINDER" default:"24h" description:"review reminder interval, 0 to disable"`
		Retries    int           `long:"retries" env:"RETRIES" default:"10" description:"purge cycles before a queued url is abandoned"`
		RetryDelay time.Duration `long:"retry-delay" env:"RETRY_DELAY" default:"50ms" description:"initial delay between purge cycles"`
	} `group:"review" namespace:"review" env-namespace:"REVIEW"`

	Server struct {
		Listen string  `long:"listen" env:"LISTEN" default:"127.0.0.1:8080" description:"listen address of web api"`
		Auth   string  `long:"auth" env:"AUTH" description:"basic auth password for user tg-linkcheck"`
		Rate   float64 `long:"rate" env:"RATE" default:"10" description:"max requests per second from a single ip, 0 to disable"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	ReviewLog struct {
		File       string `long:"file" env:"FILE" description:"review audit log, disabled if not set"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"review-log" namespace:"review-log" env-namespace:"REVIEW_LOG"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("tg-linkcheck %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Telegram.Token, opts.Server.Auth)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) (err error) {
	db, err := engine.New(ctx, opts.DB)
	if err != nil {
		return fmt.Errorf("can't make db engine: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("can't close db: %w", cerr)).ErrorOrNil()
		}
	}()

	urls, err := storage.NewURLs(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make urls store: %w", err)
	}
	queue, err := storage.NewReviewQueue(ctx, db, urls)
	if err != nil {
		return fmt.Errorf("can't make review queue: %w", err)
	}
	queue = queue.WithRetry(storage.RetryPolicy{Repeats: opts.Review.Retries, Delay: opts.Review.RetryDelay})

	notifier, err := makeNotifier(opts)
	if err != nil {
		return err
	}

	reviewLog, err := makeReviewLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make review log writer: %w", err)
	}
	defer reviewLog.Close()

	v := visitor.New(visitor.Params{Timeout: opts.Visit.Timeout, UserAgent: opts.Visit.UserAgent, Retries: opts.Visit.Retries})
	mod := moderator.New(urls, queue, v, notifier, moderator.Params{
		FailTTL:          opts.Visit.FailTTL,
		ReminderInterval: opts.Review.Reminder,
		AuditLog:         reviewLog,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var errsMu sync.Mutex
	errs := new(multierror.Error)
	fail := func(e error) {
		errsMu.Lock()
		errs = multierror.Append(errs, e)
		errsMu.Unlock()
		cancel()
	}

	if fileutils.IsFile(opts.SpamList) {
		watcher := &moderator.ListWatcher{Path: opts.SpamList, Importer: urls}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e := watcher.Run(ctx); e != nil {
				fail(e)
			}
		}()
	} else {
		log.Printf("[WARN] spam list %s not found, only reviewed urls are known", opts.SpamList)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		mod.RunReminder(ctx)
	}()

	srv := webapi.NewServer(webapi.Config{Version: revision, ListenAddr: opts.Server.Listen, Moderator: mod,
		AuthPasswd: opts.Server.Auth, Rate: opts.Server.Rate})
	if e := srv.Run(ctx); e != nil {
		fail(fmt.Errorf("webapi server failed: %w", e))
	}
	cancel()
	wg.Wait()
	return errs.ErrorOrNil()
}

// makeNotifier makes telegram notifier, nil if token is not set
func makeNotifier(opts options) (moderator.Notifier, error) {
	if opts.Telegram.Token == "" {
		log.Printf("[WARN] telegram token not set, review prompts and cleanups are not sent")
		return nil, nil
	}
	tbAPI, err := tbapi.NewBotAPIWithClient(opts.Telegram.Token, tbapi.APIEndpoint, &http.Client{Timeout: opts.Telegram.Timeout})
	if err != nil {
		return nil, fmt.Errorf("can't make telegram bot: %w", err)
	}
	tbAPI.Debug = opts.Dbg
	log.Printf("[INFO] telegram bot %q, review chat %d, log chat %d", tbAPI.Self.UserName, opts.Telegram.ReviewChat, opts.Telegram.LogChat)
	return &notify.Telegram{TbAPI: tbAPI, ReviewChat: opts.Telegram.ReviewChat, LogChat: opts.Telegram.LogChat}, nil
}

// makeReviewLogWriter creates review log writer to keep records of review decisions
// it parses options and makes lumberjack logger with rotation
func makeReviewLogWriter(opts options) (io.WriteCloser, error) {
	if opts.ReviewLog.File == "" {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, err := parseSize(opts.ReviewLog.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("can't parse review log max size: %w", err)
	}
	maxSize /= 1048576

	log.Printf("[INFO] review log enabled for %s, max size %dM", opts.ReviewLog.File, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.ReviewLog.File,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.ReviewLog.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// parseSize parses size with optional k/m/g/t suffix, i.e. 100M
func parseSize(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var nonEmpty []string
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
