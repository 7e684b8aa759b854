package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/timelog/internal/model"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Configure the issue tracker connection",
	Long:  `Store the Jira endpoint, account email and API token. The token is encrypted at rest.`,
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Jira URL: ")
	endpoint, _ := reader.ReadString('\n')
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("API Token: ")
	tokenBytes, _ := term.ReadPassword(int(syscall.Stdin))
	token := strings.TrimSpace(string(tokenBytes))
	fmt.Println()

	if endpoint == "" || email == "" || token == "" {
		return fmt.Errorf("endpoint, email and token are all required")
	}

	creds := &model.Credentials{
		Service:  model.ServiceJira,
		Endpoint: endpoint,
		Email:    email,
		Token:    token,
	}
	if err := a.store.SaveCredentials(context.Background(), creds); err != nil {
		return err
	}
	a.catalog.Invalidate()

	fmt.Println("🔄 Checking connection...")
	projects, err := a.catalog.Projects(context.Background())
	if err != nil {
		fmt.Println("⚠️  Saved, but the catalog could not be fetched:", err)
		return nil
	}

	fmt.Printf("✅ Connected. %d projects available.\n", len(projects))
	return nil
}
