package router

import (
	"line-assistant-backend/internal/features/bot/models"
)

// Canned reply content. All of it is static presentation; the dispatch
// behavior lives in router.go.

const (
	fallbackFailureText = "Sorry, I'm having trouble processing your request. Please try again later."

	businessHoursText = "Our business hours are:\n" +
		"Monday-Friday: 9:00 AM - 6:00 PM\n" +
		"Saturday: 10:00 AM - 4:00 PM\n" +
		"Sunday: Closed"

	contactInfoText = "Contact us at:\n" +
		"Phone: (555) 123-4567\n" +
		"Email: contact@business.com\n" +
		"LINE: @business_account"

	walletConnectURL = "https://citizen.dosi.world/login"
)

func greetingResponse(displayName string) models.Response {
	greeting := "Hello! Welcome to our business."
	if displayName != "" {
		greeting = "Hello, " + displayName + "! Welcome to our business."
	}
	return models.NewMenu(
		"Welcome",
		greeting+" How can I help you today?",
		models.MessageAction("Business Hours", "hours"),
		models.MessageAction("Location", "location"),
		models.MessageAction("Services", "services"),
		models.MessageAction("Contact", "contact"),
	)
}

func locationResponse() models.Response {
	return models.NewMenu(
		"Our Location",
		"We are located at:\n123 Business Street\nCity, State 12345",
		models.URIAction("Open in Maps", "https://www.google.com/maps"),
	)
}

func servicesResponse() models.Response {
	return models.NewMenu(
		"Our Services",
		"Professional consulting and business solutions.",
		models.MessageAction("Consulting", "contact"),
		models.MessageAction("Business Solutions", "contact"),
	)
}

func noWalletResponse() models.Response {
	return models.NewMenu(
		"Wallet",
		"You don't have a wallet yet. Create one?",
		models.MessageAction("Create Wallet", "create wallet"),
	)
}

// connectWalletResponse is a stub: no real wallet connection is performed.
func connectWalletResponse() models.Response {
	return models.NewMenu(
		"Connect Wallet",
		"Your DOSI wallet is not connected yet. Connect it through LINE.",
		models.URIAction("Connect", walletConnectURL),
	)
}

// balanceResponse is a stub: no balance lookup is performed.
func balanceResponse() models.Response {
	return models.NewText("Balance lookups are not available here yet. Please check your DOSI wallet app.")
}

func fallbackResponse(raw string) models.Response {
	return models.NewMenu(
		"How can I help?",
		"Thanks for your message: '"+raw+"'\nHere is what I can do:",
		models.MessageAction("Business Hours", "hours"),
		models.MessageAction("Location", "location"),
		models.MessageAction("Services", "services"),
		models.MessageAction("Contact", "contact"),
	)
}

func walletCreatedText(address, privateKey string) string {
	return "Your wallet is ready.\n" +
		"Address: " + address + "\n" +
		"Private key: " + privateKey + "\n" +
		"Save the private key now - it is shown only this once and cannot be recovered."
}

func walletAddressText(address string) string {
	return "Your wallet address:\n" + address
}
