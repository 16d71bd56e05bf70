package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/spf13/cobra"
)

func newContactsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage emergency contacts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List emergency contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.contacts.Load(cmd.Context()); err != nil {
				return err
			}
			printContacts(cmd, a.contacts.Contacts())
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add NAME PHONE",
		Short: "Add an emergency contact (phone in E.164, e.g. +15551234567)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			contact, err := a.contacts.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", contact.Name, contact.ID)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update ID NAME PHONE",
		Short: "Replace a contact's name and phone",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact ID: %w", err)
			}
			a := app()
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.contacts.Update(cmd.Context(), models.Contact{ID: id, Name: args[1], Phone: args[2]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an emergency contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact ID: %w", err)
			}
			a := app()
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.contacts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

func printContacts(cmd *cobra.Command, contacts []models.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No emergency contacts yet")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE")
	for _, c := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Phone)
	}
	_ = w.Flush()
}
