package cmd

import (
	"fmt"

	"updatebin/config"
	"updatebin/pm"

	"github.com/blang/semver"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

type selfUpdateDoneMsg struct {
	release *selfupdate.Release
	err     error
}

type selfUpdateModel struct {
	spinner spinner.Model
	waiting bool
	release *selfupdate.Release
	err     error
}

func newSelfUpdateModel() selfUpdateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return selfUpdateModel{spinner: s, waiting: true}
}

func (m selfUpdateModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m selfUpdateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case selfUpdateDoneMsg:
		m.waiting = false
		m.release = msg.release
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m selfUpdateModel) View() string {
	if m.waiting {
		return fmt.Sprintf("\n %s Checking for updates...\n\n", m.spinner.View())
	}
	return ""
}

var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update " + config.AppName + " itself to the latest release",
	Run: func(cmd *cobra.Command, args []string) {
		current := semver.MustParse(config.Version)
		repo := config.RepoOwner + "/" + config.RepoName

		p := tea.NewProgram(newSelfUpdateModel())
		go func() {
			release, err := selfupdate.UpdateSelf(current, repo)
			p.Send(selfUpdateDoneMsg{release: release, err: err})
		}()

		finalModel, err := p.Run()
		if err != nil {
			log.Fatalf("UI error: %v", err)
		}

		m := finalModel.(selfUpdateModel)
		if m.err != nil {
			log.Errorf("Self-update failed: %s", m.err)
			return
		}
		if m.release == nil || m.release.Version.Equals(current) {
			fmt.Printf("%s %s is already up to date (v%s)\n", pm.Info, config.AppName, config.Version)
			return
		}

		fmt.Printf("%s Successfully updated %s from v%s to v%s\n", pm.Check, config.AppName, config.Version, m.release.Version)
		if m.release.ReleaseNotes != "" {
			fmt.Printf("\nRelease notes:\n%s\n", m.release.ReleaseNotes)
		}
	},
}

func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}
