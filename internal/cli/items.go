package cli

import (
	"errors"
	"fmt"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/imaging"
	"lostaf-cli/internal/model"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse and manage lost/found reports",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsResolveCmd(app))
	cmd.AddCommand(newItemsMineCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var f model.FilterState

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active reports, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if err := validateFilter(f); err != nil {
				return err
			}
			items, err := app.client.ListItems(cmd.Context(), f)
			if err != nil {
				return authHint(err)
			}
			return writeOut(cmd, app, items)
		},
	}

	cmd.Flags().StringVar(&f.Type, "type", "", "lost or found")
	cmd.Flags().StringVar(&f.Category, "category", "", "One of the fixed categories")
	cmd.Flags().StringVar(&f.Location, "location", "", "One of the fixed locations")
	cmd.Flags().StringVar(&f.Search, "search", "", "Free-text search over title and description")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one report with its suggested matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			it, err := app.client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return authHint(err)
			}
			return writeOut(cmd, app, it)
		},
	}
}

func newItemsCreateCmd(app *App) *cobra.Command {
	d := model.NewDraft()
	var typeFlag, imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new lost/found report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			d.Type = model.ItemType(typeFlag)
			if err := d.Validate(); err != nil {
				return err
			}

			var att *api.ImageAttachment
			if imagePath != "" {
				img, err := imaging.Load(imagePath)
				if err != nil {
					return err
				}
				att = &api.ImageAttachment{Filename: img.Filename, MIME: img.MIME, Data: img.Data}
			}

			it, err := app.client.CreateItem(cmd.Context(), d, att)
			if err != nil {
				return authHint(err)
			}
			return writeOut(cmd, app, it)
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", string(model.ItemLost), "lost or found")
	cmd.Flags().StringVar(&d.Title, "title", "", "Short item title")
	cmd.Flags().StringVar(&d.Category, "category", "", "One of the fixed categories")
	cmd.Flags().StringVar(&d.Location, "location", "", "One of the fixed locations")
	cmd.Flags().StringVar(&d.Date, "date", "", "Date lost/found (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.Description, "description", "", "Free-text description")
	cmd.Flags().BoolVar(&d.IsAnonymous, "anonymous", false, "Hide your contact details on the report")
	cmd.Flags().StringVar(&imagePath, "image", "", "Optional photo (JPEG or PNG)")
	return cmd
}

func newItemsResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <item-id>",
		Short: "Mark your own report as resolved (one-way)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			it, err := app.client.Resolve(cmd.Context(), args[0])
			if errors.Is(err, api.ErrRejected) {
				return errors.New("the server refused the change: only the item's owner can resolve it")
			}
			if err != nil {
				return authHint(err)
			}
			return writeOut(cmd, app, it)
		},
	}
}

func newItemsMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own reports, resolved ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			items, err := app.client.MyItems(cmd.Context())
			if err != nil {
				return authHint(err)
			}
			return writeOut(cmd, app, items)
		},
	}
}

func validateFilter(f model.FilterState) error {
	if f.Type != "" && !model.ItemType(f.Type).Valid() {
		return fmt.Errorf("--type must be %q or %q", model.ItemLost, model.ItemFound)
	}
	if f.Category != "" && !model.ValidCategory(f.Category) {
		return fmt.Errorf("--category must be one of %v", model.Categories)
	}
	if f.Location != "" && !model.ValidLocation(f.Location) {
		return fmt.Errorf("--location must be one of %v", model.Locations)
	}
	return nil
}

func authHint(err error) error {
	if errors.Is(err, api.ErrAuthRequired) {
		return errors.New("not signed in; run `lostaf login`")
	}
	return err
}
