package router

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-assistant-backend/internal/features/bot/models"
	walletmodels "line-assistant-backend/internal/features/wallet/models"
	"line-assistant-backend/internal/features/wallet/repository/memory"
	walletservice "line-assistant-backend/internal/features/wallet/service"
	"line-assistant-backend/internal/platform/line"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	return New(walletservice.NewWalletService(memory.NewWalletRepository()), nil)
}

// panicWalletService simulates an internal fault inside a rule handler.
type panicWalletService struct{}

func (panicWalletService) CreateWallet(context.Context, string) (*walletmodels.Wallet, error) {
	panic("storage exploded")
}

func (panicWalletService) GetWallet(context.Context, string) (*walletmodels.Wallet, error) {
	panic("storage exploded")
}

type staticProfiles struct {
	name string
}

func (p staticProfiles) GetProfile(ctx context.Context, userID string) (*line.Profile, error) {
	return &line.Profile{UserID: userID, DisplayName: p.name}, nil
}

func TestRouteIsTotal(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	inputs := []string{
		"", "   ", "hello", "HELLO", "create wallet", "show wallet",
		"completely unknown gibberish", "🎉🎉🎉", strings.Repeat("x", 5000),
		"\x00\x01", "balance please", "wallet",
	}
	for _, in := range inputs {
		resp := r.Route(ctx, in, "U1")
		assert.True(t, resp.Text != "" || resp.Menu != nil, "no response for %q", in)
	}
}

func TestRouteSurvivesPanickingHandler(t *testing.T) {
	r := New(panicWalletService{}, nil)

	resp := r.Route(context.Background(), "create wallet", "U1")
	require.NotNil(t, resp)
	assert.Equal(t, fallbackFailureText, resp.Text)
}

func TestGreetingIsCaseInsensitive(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	lower := r.Route(ctx, "hello", "U1")
	upper := r.Route(ctx, "HELLO", "U1")
	mixed := r.Route(ctx, "  HeLLo  ", "U1")

	require.NotNil(t, lower.Menu)
	require.NotNil(t, upper.Menu)
	require.NotNil(t, mixed.Menu)
	assert.Equal(t, lower.Menu.Title, upper.Menu.Title)
	assert.Equal(t, lower.Menu.Title, mixed.Menu.Title)
}

func TestGreetingVariants(t *testing.T) {
	r := newTestRouter(t)
	for _, in := range []string{"hi", "hello", "hey"} {
		resp := r.Route(context.Background(), in, "U1")
		require.NotNil(t, resp.Menu, "greeting %q should produce a menu", in)
	}
}

func TestGreetingUsesDisplayName(t *testing.T) {
	svc := walletservice.NewWalletService(memory.NewWalletRepository())
	r := New(svc, staticProfiles{name: "Alex"})

	resp := r.Route(context.Background(), "hello", "U1")
	require.NotNil(t, resp.Menu)
	assert.Contains(t, resp.Menu.Text, "Alex")
}

func TestCreateWalletFlow(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	created := r.Route(ctx, "create wallet", "U1")
	require.Empty(t, created.Menu)
	assert.Contains(t, created.Text, "0x")
	assert.Contains(t, created.Text, "Private key")

	again := r.Route(ctx, "create wallet", "U1")
	assert.Contains(t, again.Text, "already have a wallet")
}

func TestShowWalletNeverRevealsPrivateKey(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	created := r.Route(ctx, "create wallet", "U1")

	// Pull the private key hex out of the creation reply.
	var privateKey string
	for _, ln := range strings.Split(created.Text, "\n") {
		if strings.HasPrefix(ln, "Private key: ") {
			privateKey = strings.TrimPrefix(ln, "Private key: ")
		}
	}
	require.Len(t, privateKey, 64)

	shown := r.Route(ctx, "show wallet", "U1")
	assert.NotContains(t, shown.Text, privateKey)
	assert.Contains(t, shown.Text, "0x")
}

func TestShowWalletWithoutRecordOffersCreate(t *testing.T) {
	r := newTestRouter(t)

	resp := r.Route(context.Background(), "show wallet", "U1")
	require.NotNil(t, resp.Menu)
	assert.Contains(t, resp.Menu.Text, "don't have a wallet")

	require.NotEmpty(t, resp.Menu.Actions)
	assert.Equal(t, "create wallet", resp.Menu.Actions[0].Text)
}

func TestWalletsAreIndependentAcrossUsers(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	first := r.Route(ctx, "create wallet", "U1")
	second := r.Route(ctx, "create wallet", "U2")

	assert.NotEqual(t, first.Text, second.Text)
}

func TestInformationalIntents(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, resp models.Response)
	}{
		{
			name:  "hours by keyword",
			input: "what are your hours?",
			check: func(t *testing.T, resp models.Response) {
				assert.Contains(t, resp.Text, "business hours")
			},
		},
		{
			name:  "hours by opening",
			input: "opening times",
			check: func(t *testing.T, resp models.Response) {
				assert.Contains(t, resp.Text, "business hours")
			},
		},
		{
			name:  "location menu with maps link",
			input: "where is your location",
			check: func(t *testing.T, resp models.Response) {
				require.NotNil(t, resp.Menu)
				require.NotEmpty(t, resp.Menu.Actions)
				assert.Equal(t, models.ActionURI, resp.Menu.Actions[0].Type)
			},
		},
		{
			name:  "address maps to location",
			input: "what's the address",
			check: func(t *testing.T, resp models.Response) {
				require.NotNil(t, resp.Menu)
				assert.Equal(t, "Our Location", resp.Menu.Title)
			},
		},
		{
			name:  "services",
			input: "show me the services",
			check: func(t *testing.T, resp models.Response) {
				require.NotNil(t, resp.Menu)
				assert.Equal(t, "Our Services", resp.Menu.Title)
			},
		},
		{
			name:  "contact",
			input: "contact info please",
			check: func(t *testing.T, resp models.Response) {
				assert.Contains(t, resp.Text, "Contact us")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, r.Route(ctx, tc.input, "U1"))
		})
	}
}

func TestStubCommands(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	connect := r.Route(ctx, "connect wallet", "U1")
	require.NotNil(t, connect.Menu)
	assert.Contains(t, connect.Menu.Text, "not connected")

	balance := r.Route(ctx, "check my balance", "U1")
	assert.Contains(t, balance.Text, "not available")
}

func TestFallbackEchoesRawText(t *testing.T) {
	r := newTestRouter(t)

	resp := r.Route(context.Background(), "SoMeThInG Odd", "U1")
	require.NotNil(t, resp.Menu)
	// Raw casing is preserved in the echo even though matching normalizes.
	assert.Contains(t, resp.Menu.Text, "SoMeThInG Odd")
}

func TestFirstMatchWins(t *testing.T) {
	r := newTestRouter(t)

	// "hello" is in the greeting set; it must not fall through to the
	// substring rules even though it contains no other keyword.
	resp := r.Route(context.Background(), "hello", "U1")
	require.NotNil(t, resp.Menu)
	assert.Equal(t, "Welcome", resp.Menu.Title)

	// "create wallet" contains "wallet" but the exact rule fires first and
	// actually creates.
	created := r.Route(context.Background(), "create wallet", "U2")
	assert.Contains(t, created.Text, "Private key")
}
