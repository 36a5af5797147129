package router

import (
	"context"
	"strings"

	apperrors "line-assistant-backend/internal/common/errors"
	"line-assistant-backend/internal/common/logger"
	"line-assistant-backend/internal/features/bot/models"
	walletservice "line-assistant-backend/internal/features/wallet/service"
	"line-assistant-backend/internal/platform/line"
)

// ProfileProvider resolves a user's profile for personalized replies.
// Optional: a nil provider simply disables personalization.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

// Router maps one inbound text message to one Response. Dispatch is an
// ordered rule table, first match wins; matching happens on a trimmed,
// lower-cased copy of the text while the raw text is kept for interpolation.
// Route is total: every input, including handler faults, yields a Response.
type Router struct {
	wallets  walletservice.WalletService
	profiles ProfileProvider
	rules    []rule
}

type rule struct {
	name   string
	match  func(norm string) bool
	handle func(ctx context.Context, req request) (models.Response, error)
}

type request struct {
	norm   string
	raw    string
	userID string
}

func New(wallets walletservice.WalletService, profiles ProfileProvider) *Router {
	r := &Router{wallets: wallets, profiles: profiles}
	r.rules = []rule{
		{name: "greeting", match: matchAny("hi", "hello", "hey"), handle: r.handleGreeting},
		{name: "create_wallet", match: matchExact("create wallet"), handle: r.handleCreateWallet},
		{name: "show_wallet", match: matchExact("show wallet"), handle: r.handleShowWallet},
		{name: "connect_wallet", match: matchExact("connect wallet"), handle: handleStatic(connectWalletResponse())},
		{name: "balance", match: matchContains("balance"), handle: handleStatic(balanceResponse())},
		{name: "hours", match: matchContains("hours", "opening"), handle: handleStatic(models.NewText(businessHoursText))},
		{name: "location", match: matchContains("location", "address"), handle: handleStatic(locationResponse())},
		{name: "services", match: matchContains("menu", "services"), handle: handleStatic(servicesResponse())},
		{name: "contact", match: matchContains("contact"), handle: handleStatic(models.NewText(contactInfoText))},
		{name: "fallback", match: func(string) bool { return true }, handle: r.handleFallback},
	}
	return r
}

// Route dispatches text for the given user and always returns a Response.
// Any error or panic escaping a rule handler is terminated here and turned
// into the generic failure text; internal details never reach the chat.
func (r *Router) Route(ctx context.Context, text, userID string) (resp models.Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error().
				Str("user_id", userID).
				Interface("panic", recovered).
				Msg("Panic while routing message")
			resp = models.NewText(fallbackFailureText)
		}
	}()

	req := request{
		norm:   strings.ToLower(strings.TrimSpace(text)),
		raw:    text,
		userID: userID,
	}

	for _, rl := range r.rules {
		if !rl.match(req.norm) {
			continue
		}

		out, err := rl.handle(ctx, req)
		if err != nil {
			r.logRuleError(rl.name, req.userID, err)
			return models.NewText(fallbackFailureText)
		}
		return out
	}

	// Unreachable: the fallback rule matches everything.
	return models.NewText(fallbackFailureText)
}

func (r *Router) logRuleError(rule, userID string, err error) {
	ev := logger.Error().
		Str("rule", rule).
		Str("user_id", userID).
		Err(err)
	if appErr, ok := apperrors.AsAppError(err); ok {
		ev = ev.Str("error_code", string(appErr.Code))
	}
	ev.Msg("Rule handler failed")
}

func (r *Router) handleGreeting(ctx context.Context, req request) (models.Response, error) {
	name := ""
	if r.profiles != nil {
		p, err := r.profiles.GetProfile(ctx, req.userID)
		if err != nil {
			// Personalization is best-effort; greet anonymously.
			logger.Debug().Str("user_id", req.userID).Err(err).Msg("Profile lookup failed")
		} else {
			name = p.DisplayName
		}
	}
	return greetingResponse(name), nil
}

func (r *Router) handleCreateWallet(ctx context.Context, req request) (models.Response, error) {
	wallet, err := r.wallets.CreateWallet(ctx, req.userID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsConflict() {
			// The conflict message is user-facing by contract.
			return models.NewText(appErr.Message), nil
		}
		return models.Response{}, err
	}

	// The private key is disclosed exactly once, here.
	return models.NewText(walletCreatedText(wallet.Address, wallet.PrivateKey)), nil
}

func (r *Router) handleShowWallet(ctx context.Context, req request) (models.Response, error) {
	wallet, err := r.wallets.GetWallet(ctx, req.userID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsNotFound() {
			return noWalletResponse(), nil
		}
		return models.Response{}, err
	}

	// Address only: the private key is never re-displayed after creation.
	return models.NewText(walletAddressText(wallet.Address)), nil
}

func (r *Router) handleFallback(ctx context.Context, req request) (models.Response, error) {
	return fallbackResponse(req.raw), nil
}

func handleStatic(resp models.Response) func(context.Context, request) (models.Response, error) {
	return func(context.Context, request) (models.Response, error) {
		return resp, nil
	}
}

func matchExact(want string) func(string) bool {
	return func(norm string) bool { return norm == want }
}

func matchAny(want ...string) func(string) bool {
	return func(norm string) bool {
		for _, w := range want {
			if norm == w {
				return true
			}
		}
		return false
	}
}

func matchContains(subs ...string) func(string) bool {
	return func(norm string) bool {
		for _, s := range subs {
			if strings.Contains(norm, s) {
				return true
			}
		}
		return false
	}
}
