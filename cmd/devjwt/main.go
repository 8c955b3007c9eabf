package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tourvisto/trip-admin-api/internal/platform/auth/jwtverifier"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
)

// Tiny dev-only HS256 token issuer.
//
// It shares JWT_SECRET/JWT_ISSUER/JWT_AUDIENCE with the API so tokens it mints
// pass AUTH_MODE=jwt verification locally.

type devConfig struct {
	Addr     string        `env:"DEVJWT_ADDR" env-default:":5556"`
	Secret   string        `env:"JWT_SECRET" env-default:"dev-secret-change-me-dev-secret-change-me"`
	Issuer   string        `env:"JWT_ISSUER" env-default:"trip-admin-dev"`
	Audience string        `env:"JWT_AUDIENCE" env-default:"trip-admin-api"`
	TTL      time.Duration `env:"DEVJWT_TTL" env-default:"30m"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`
	Exp   int64  `json:"exp"`
}

func main() {
	log := sl.New("local")

	var cfg devConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error("invalid devjwt config", sl.Err(err))
		os.Exit(1)
	}
	jwtCfg := jwtverifier.Config{
		Secret:   []byte(cfg.Secret),
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// GET /token?sub=dev|alice&email=alice@example.com
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(r.URL.Query().Get("email"))

		now := time.Now().UTC()
		token, err := jwtverifier.Mint(jwtCfg, sub, email, now, cfg.TTL)
		if err != nil {
			log.Error("failed to mint token", sl.Err(err))
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, tokenResponse{
			Token: token,
			Sub:   sub,
			Email: email,
			Iss:   cfg.Issuer,
			Aud:   cfg.Audience,
			Exp:   now.Add(cfg.TTL).Unix(),
		})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("devjwt listening", slog.String("addr", cfg.Addr), slog.String("iss", cfg.Issuer), slog.String("aud", cfg.Audience), slog.Duration("ttl", cfg.TTL))
	if err := srv.ListenAndServe(); err != nil {
		log.Error("listen failed", sl.Err(err))
		os.Exit(1)
	}
}
