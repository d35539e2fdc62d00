package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/valcheck/pkg/cli"
	"mercator-hq/valcheck/pkg/services"
)

type conditionInfo struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Composite   bool     `json:"composite,omitempty"`
	Required    []string `json:"required,omitempty"`
	Optional    []string `json:"optional,omitempty"`
}

func (c conditionInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %s", c.Type, c.Description)
	if len(c.Required) > 0 {
		fmt.Fprintf(&b, " (requires %s)", strings.Join(c.Required, ", "))
	}
	return b.String()
}

func newConditionsCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "conditions",
		Short: "List the registered condition types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cli.ParseOutputFormat(format)
			if err != nil {
				return cli.NewCommandError("conditions", err)
			}

			infos := describeConditions(a.cfg.Analysis.Registry().Conditions)
			if f == cli.FormatJSON {
				return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), infos)
			}
			lines := make([]string, len(infos))
			for i, info := range infos {
				lines[i] = info.String()
			}
			return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), lines)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	return cmd
}

func describeConditions(reg services.ConditionRegistry) []conditionInfo {
	types := reg.Types()
	infos := make([]conditionInfo, 0, len(types))
	for _, t := range types {
		d := reg.Find(t)
		if d == nil {
			continue
		}
		infos = append(infos, conditionInfo{
			Type:        d.Type,
			Description: d.Description,
			Composite:   d.Composite,
			Required:    d.Required,
			Optional:    d.Optional,
		})
	}
	return infos
}
