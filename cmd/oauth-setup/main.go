// cmd/oauth-setup - one-time helper that walks through the Strava
// authorization-code flow and prints the env values the server needs.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/skeates/trmnl-running-dashboard/internal/config"
	"github.com/skeates/trmnl-running-dashboard/internal/strava"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Strava OAuth setup for the TRMNL running dashboard")
	fmt.Println(strings.Repeat("=", 60))

	clientID := prompt(reader, "Enter your Strava Client ID: ")
	clientSecret := prompt(reader, "Enter your Strava Client Secret: ")
	if clientID == "" || clientSecret == "" {
		fmt.Println("Client ID and Secret are required")
		os.Exit(1)
	}

	authURL := "https://www.strava.com/oauth/authorize" +
		"?client_id=" + url.QueryEscape(clientID) +
		"&response_type=code" +
		"&redirect_uri=http://localhost" +
		"&approval_prompt=force" +
		"&scope=activity:read_all"

	fmt.Println("\nOpen this URL in your browser and authorize the app:")
	fmt.Println("\n" + authURL)
	fmt.Println("\nAfter authorizing you'll land on a localhost error page.")
	fmt.Println("Copy the full URL from the address bar; it contains the code.")

	redirectURL := prompt(reader, "\nPaste the full redirect URL here: ")
	code, err := extractCode(redirectURL)
	if err != nil {
		fmt.Printf("Could not extract authorization code: %v\n", err)
		os.Exit(1)
	}

	client := strava.NewClient(config.StravaConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     "https://www.strava.com/oauth/token",
		APIBaseURL:   "https://www.strava.com/api/v3",
	})

	token, err := client.ExchangeAuthorizationCode(context.Background(), code)
	if err != nil {
		fmt.Printf("Token exchange failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nSuccess! Add these to your .env:")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("STRAVA_CLIENT_ID=%s\n", clientID)
	fmt.Printf("STRAVA_CLIENT_SECRET=%s\n", clientSecret)
	fmt.Printf("STRAVA_REFRESH_TOKEN=%s\n", token.RefreshToken)
	fmt.Println(strings.Repeat("=", 60))

	if token.Athlete != nil {
		fmt.Printf("\nAuthenticated as: %s %s\n", token.Athlete.FirstName, token.Athlete.LastName)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func extractCode(redirectURL string) (string, error) {
	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return "", err
	}
	code := parsed.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("no code parameter in %q", redirectURL)
	}
	return code, nil
}
