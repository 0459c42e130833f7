package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/config"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/content"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/schema"
)

// NewValidateCmd lints a content directory. Editors run this before
// publishing so a schema violation never reaches production content.
func NewValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate every quiz document in a content directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(cmd, *configPath, dir)
		},
	}
}

func runValidate(cmd *cobra.Command, configPath, dir string) error {
	if dir == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dir = cfg.Content.Dir
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source := content.NewFSSource(dir)
	keys, err := source.Keys(ctx)
	if err != nil {
		return err
	}

	var violations []string
	for _, key := range keys {
		raw, err := source.Load(ctx, key)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s.json: %v", key, err))
			continue
		}
		def, err := schema.Validate(raw)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s.json: %v", key, err))
			continue
		}
		if def.Slug != key {
			err := &domain.SlugMismatchError{Key: key, Slug: def.Slug}
			violations = append(violations, fmt.Sprintf("%s.json: %v", key, err))
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("%d invalid quiz document(s):\n%s", len(violations), strings.Join(violations, "\n"))
	}
	cmd.Printf("%d quiz document(s) valid\n", len(keys))
	return nil
}
