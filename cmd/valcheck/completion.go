package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for valcheck.

To load completions:

Bash:
  $ source <(valcheck completion bash)
  # To load permanently:
  $ valcheck completion bash > /etc/bash_completion.d/valcheck

Zsh:
  $ valcheck completion zsh > "${fpath[1]}/_valcheck"
  $ compinit

Fish:
  $ valcheck completion fish | source
  # To load permanently:
  $ valcheck completion fish > ~/.config/fish/completions/valcheck.fish

PowerShell:
  PS> valcheck completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:   []string{"bash", "zsh", "fish", "powershell"},
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
