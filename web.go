/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/wavedial/client"
	"github.com/Seednode/wavedial/conn"
	"github.com/Seednode/wavedial/rooms"
	"github.com/julienschmidt/httprouter"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("wavedial v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// newCompanion builds the local page that mirrors and drives the session.
func newCompanion(cfg *Config, s *client.Session, errs chan<- error) *http.Server {
	mux := httprouter.New()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	mux.GET(cfg.prefix+"/", serveScreen(cfg, s, errs))

	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/state", serveState(cfg, s, errs))

	mux.GET(cfg.prefix+"/qr.png", serveQR(cfg, s, errs))

	mux.POST(cfg.prefix+"/pointer/:action", requireSameOrigin(cfg, servePointer(cfg, s, errs)))

	mux.POST(cfg.prefix+"/action/:name", requireSameOrigin(cfg, serveAction(cfg, s)))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return srv
}

// Play runs one client: the session loop, the companion page and the
// terminal console, until ctx is done or the console quits.
func Play(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: wavedial v%s", releaseVersion)

	wsBase, err := cfg.wsBase()
	if err != nil {
		return err
	}

	transport := conn.NewManager(wsBase, cfg.logger)
	transport.OnStatus(func(connected bool) {
		if connected {
			logf(cfg, "CONN: Connected to %s", wsBase)
		} else {
			logf(cfg, "CONN: Disconnected from %s", wsBase)
		}
	})

	session := client.New(client.Options{
		Transport: transport,
		Rooms:     rooms.New(cfg.server, cfg.timeout),
		FPS:       cfg.fps,
		NameMatch: cfg.nameMatch(),
		Logger:    cfg.logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = session.Run(ctx)
	}()

	errs := make(chan error, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				errorf(cfg, err)
			}
		}
	}()

	var srv *http.Server
	if cfg.port != 0 {
		srv = newCompanion(cfg, session, errs)

		go func() {
			logf(cfg, "SERVE: Listening on http://%s%s/", srv.Addr, cfg.prefix)
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errorf(cfg, err)
			}
		}()
	}

	c := newConsole(cfg, session, out)

	switch {
	case cfg.create:
		c.exec(ctx, "create "+cfg.name)
	case cfg.room != "":
		c.exec(ctx, "join "+cfg.room+" "+cfg.name)
	}

	go func() {
		if c.run(ctx, in) {
			cancel()
		}
	}()

	<-ctx.Done()

	if srv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
	}

	<-loopDone
	transport.Close()

	return nil
}
