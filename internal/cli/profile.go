package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkelsey/devportal/internal/model"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile management commands",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := app.Session.Profile(cmd.Context())
			if identity == nil {
				return fmt.Errorf("not signed in")
			}

			NewOutput(cfg.Output).Print(identity)
			return nil
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update model.ProfileUpdate
			if cmd.Flags().Changed("username") {
				update.Username = &username
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if update.Username == nil && update.Email == nil {
				return fmt.Errorf("nothing to update, pass --username or --email")
			}

			ok, message := app.Session.UpdateProfile(cmd.Context(), update)
			if !ok {
				return fmt.Errorf("profile update failed: %s", message)
			}

			NewOutput(cfg.Output).Print(app.Session.Identity())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&email, "email", "", "New email")

	return cmd
}

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorited portal entities",
	}

	cmd.AddCommand(newFavoritesListCmd())
	cmd.AddCommand(newFavoritesAddCmd())
	cmd.AddCommand(newFavoritesRemoveCmd())

	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := app.Session.Profile(cmd.Context())
			if identity == nil {
				return fmt.Errorf("not signed in")
			}

			NewOutput(cfg.Output).Print(identity)
			return nil
		},
	}
}

func newFavoritesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <id>",
		Short: "Add a favorite (categories: languages, projects, components, guides)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFavorites(cmd, args, model.Favorites.Add)
		},
	}
}

func newFavoritesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category> <id>",
		Short: "Remove a favorite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFavorites(cmd, args, model.Favorites.Remove)
		},
	}
}

func editFavorites(cmd *cobra.Command, args []string, edit func(model.Favorites, model.FavoriteCategory, string)) error {
	category := model.FavoriteCategory(args[0])
	switch category {
	case model.FavoriteLanguages, model.FavoriteProjects, model.FavoriteComponents, model.FavoriteGuides:
	default:
		return fmt.Errorf("unknown category %q", args[0])
	}

	identity := app.Session.Identity()
	if identity == nil {
		return fmt.Errorf("not signed in")
	}

	favorites := identity.Favorites.Clone()
	if favorites == nil {
		favorites = model.Favorites{}
	}
	edit(favorites, category, args[1])

	ok, message := app.Session.UpdateProfile(cmd.Context(), model.ProfileUpdate{Favorites: favorites})
	if !ok {
		return fmt.Errorf("favorites update failed: %s", message)
	}

	NewOutput(cfg.Output).Print(app.Session.Identity())
	return nil
}
