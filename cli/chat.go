package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Italic(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	bannerStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Foreground(lipgloss.Color("14"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive travel assistant session",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}

		ctx := cmd.Context()
		a, cleanup, err := buildAssistant(ctx, cfg)
		if err != nil {
			exitErr("start assistant", err)
		}
		defer cleanup()

		fmt.Println(bannerStyle.Render("tripgraph — ask me about destinations, food, and trip plans\ntype 'exit' or 'quit' to leave"))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("you> "))
			if !scanner.Scan() {
				break
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				continue
			}
			if query == "exit" || query == "quit" {
				break
			}

			resp := a.Answer(ctx, query)
			if resp.Summary != "" {
				fmt.Println(summaryStyle.Render(resp.Summary))
			}
			fmt.Println(answerStyle.Render(resp.Answer))
			fmt.Println(metaStyle.Render(fmt.Sprintf("intent=%s graph=%d vector=%d",
				resp.Intent, resp.GraphCount, resp.VectorCount)))
			fmt.Println()
		}
	},
}
