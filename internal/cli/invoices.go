package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, search, and manage invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		invoices, err := appInstance.InvoiceService.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		query, _ := cmd.Flags().GetString("search")
		invoices = domain.FilterInvoices(invoices, query)

		if appInstance.Config.Backend.Demo {
			fmt.Println("Demo mode: showing sample data")
		}

		if len(invoices) == 0 {
			if query != "" {
				fmt.Printf("No invoices match %q\n", query)
			} else {
				fmt.Println("No invoices found")
			}
			return nil
		}

		// Print table header
		fmt.Printf("%-26s %-12s %-20s %-12s %12s %-8s\n", "ID", "Number", "Client", "Date", "Total", "Status")
		fmt.Println(strings.Repeat("-", 94))

		for _, inv := range invoices {
			fmt.Printf("%-26s %-12s %-20s %-12s %12s %-8s\n",
				truncate(inv.ID, 26),
				inv.InvoiceNumber,
				truncate(inv.To.Name, 20),
				inv.Date,
				fmt.Sprintf("$%.2f", inv.Total),
				inv.Status,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Invoice: %s\n", inv.InvoiceNumber)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Status: %s\n", inv.Status)
		fmt.Printf("Date:   %s\n", inv.Date)
		if inv.DueDate != "" {
			fmt.Printf("Due:    %s\n", inv.DueDate)
		}
		fmt.Println()

		printParty("From", inv.From)
		printParty("To", inv.To)

		fmt.Println("Items:")
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("%-44s %6s %12s %12s\n", "Description", "Qty", "Price", "Total")
		fmt.Println(strings.Repeat("-", 80))
		for _, item := range inv.Items {
			fmt.Printf("%-44s %6d %12s %12s\n",
				truncate(item.Description, 44),
				item.Quantity,
				fmt.Sprintf("$%.2f", item.Price),
				fmt.Sprintf("$%.2f", item.Total),
			)
		}
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("\nSubtotal: $%.2f\n", inv.Subtotal)
		fmt.Printf("Tax (%.1f%%): $%.2f\n", inv.TaxRate, inv.TaxAmount)
		fmt.Printf("Total: $%.2f\n", inv.Total)

		if inv.Notes != "" {
			fmt.Printf("\nNotes:\n%s\n", inv.Notes)
		}
		fmt.Println(strings.Repeat("=", 80))

		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create an invoice from flags and submit it to the backend.

Line items are given as --item "description|quantity|price", repeatable:

  invoicedesk invoices create --to-name "Acme Corp" \
      --item "Consulting|10|150" --item "Hosting|1|25.50" --tax 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		draft := appInstance.InvoiceService.NewDraft()

		draft.To.Name, _ = cmd.Flags().GetString("to-name")
		draft.To.Address, _ = cmd.Flags().GetString("to-address")
		draft.To.City, _ = cmd.Flags().GetString("to-city")
		draft.To.Phone, _ = cmd.Flags().GetString("to-phone")
		draft.To.Email, _ = cmd.Flags().GetString("to-email")

		if date, _ := cmd.Flags().GetString("date"); date != "" {
			draft.Date = date
		}
		draft.DueDate, _ = cmd.Flags().GetString("due")
		draft.Notes, _ = cmd.Flags().GetString("notes")

		if cmd.Flags().Changed("tax") {
			tax, _ := cmd.Flags().GetString("tax")
			draft.SetTaxRate(tax)
		}

		itemSpecs, _ := cmd.Flags().GetStringArray("item")
		if len(itemSpecs) == 0 {
			return fmt.Errorf("at least one --item is required")
		}
		for i, spec := range itemSpecs {
			parts := strings.Split(spec, "|")
			if len(parts) != 3 {
				return fmt.Errorf("invalid item %q: want \"description|quantity|price\"", spec)
			}
			if i > 0 {
				draft.AddItem()
			}
			draft.SetItemDescription(i, strings.TrimSpace(parts[0]))
			draft.SetItemQuantity(i, parts[1])
			draft.SetItemPrice(i, parts[2])
		}

		inv, err := appInstance.InvoiceService.Submit(ctx, draft)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Printf("✓ Invoice created: %s\n", inv.InvoiceNumber)
		fmt.Printf("  Client: %s\n", inv.To.Name)
		fmt.Printf("  Subtotal: $%.2f\n", inv.Subtotal)
		fmt.Printf("  Tax: $%.2f\n", inv.TaxAmount)
		fmt.Printf("  Total: $%.2f\n", inv.Total)
		return nil
	},
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Change an invoice's status (draft, sent, paid, overdue)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		status, err := domain.ParseInvoiceStatus(args[1])
		if err != nil {
			return err
		}

		inv, err := appInstance.InvoiceService.SetStatus(ctx, args[0], status)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as %s\n", inv.InvoiceNumber, inv.Status)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		skipConfirm, _ := cmd.Flags().GetBool("yes")
		if !skipConfirm {
			fmt.Printf("Delete invoice %s? This cannot be undone. [y/N]: ", args[0])
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := appInstance.InvoiceService.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Println("✓ Invoice deleted")
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [id]",
	Short: "Export, print, or share the PDF rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		if doPrint, _ := cmd.Flags().GetBool("print"); doPrint {
			if err := appInstance.InvoiceService.PrintPDF(ctx, inv); err != nil {
				return err
			}
			fmt.Printf("✓ Invoice %s sent to printer\n", inv.InvoiceNumber)
			return nil
		}

		path, err := appInstance.InvoiceService.ExportPDF(ctx, inv)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", path)
		return nil
	},
}

func printParty(label string, p domain.PartyInfo) {
	fmt.Printf("%s:\n", label)
	fmt.Printf("  %s\n", p.Name)
	if p.Address != "" {
		fmt.Printf("  %s\n", p.Address)
	}
	if p.City != "" {
		fmt.Printf("  %s\n", p.City)
	}
	if p.Phone != "" {
		fmt.Printf("  %s\n", p.Phone)
	}
	if p.Email != "" {
		fmt.Printf("  %s\n", p.Email)
	}
	fmt.Println()
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesStatusCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)

	// List flags
	invoicesListCmd.Flags().String("search", "", "Filter by client, number, phone, email, or item description")

	// Create flags
	invoicesCreateCmd.Flags().String("to-name", "", "Client name (required)")
	invoicesCreateCmd.Flags().String("to-address", "", "Client address")
	invoicesCreateCmd.Flags().String("to-city", "", "Client city")
	invoicesCreateCmd.Flags().String("to-phone", "", "Client phone")
	invoicesCreateCmd.Flags().String("to-email", "", "Client email")
	invoicesCreateCmd.Flags().String("date", "", "Invoice date YYYY-MM-DD (defaults to today)")
	invoicesCreateCmd.Flags().String("due", "", "Due date YYYY-MM-DD")
	invoicesCreateCmd.Flags().String("tax", "", "Tax rate percent (defaults from config)")
	invoicesCreateCmd.Flags().String("notes", "", "Additional notes")
	invoicesCreateCmd.Flags().StringArray("item", nil, "Line item as \"description|quantity|price\" (repeatable)")
	invoicesCreateCmd.MarkFlagRequired("to-name")

	// Delete flags
	invoicesDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	// PDF flags
	invoicesPDFCmd.Flags().Bool("print", false, "Send to the system print spooler instead of saving")
}
