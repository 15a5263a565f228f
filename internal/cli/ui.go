// Package cli is the menu-driven console front end.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bankingapp/ledger/internal/models"
	"github.com/bankingapp/ledger/internal/services"
	"github.com/shopspring/decimal"
)

type Ledger interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	FreezeWithCode(ctx context.Context, code string, accountID int64) (bool, error)
	Authenticate(ctx context.Context, accountID int64, password string) (bool, error)
}

type Accounts interface {
	RegisterUser(ctx context.Context, req services.RegisterRequest) (*models.User, *models.Account, error)
	CreateAccount(ctx context.Context, userID int64, accountType models.AccountType) (*models.Account, error)
	History(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error)
}

type UI struct {
	ledger   Ledger
	accounts Accounts
	in       *bufio.Reader
	out      io.Writer
}

func NewUI(ledger Ledger, accounts Accounts, in io.Reader, out io.Writer) *UI {
	return &UI{ledger: ledger, accounts: accounts, in: bufio.NewReader(in), out: out}
}

var errInputClosed = errors.New("input closed")

// Run shows the main menu until the user exits, input ends or ctx is cancelled
func (ui *UI) Run(ctx context.Context) {
	fmt.Fprintln(ui.out, "Welcome to the Banking Application!")

	for ctx.Err() == nil {
		fmt.Fprintln(ui.out, "\nChoose an option:")
		fmt.Fprintln(ui.out, "1. Register a New User")
		fmt.Fprintln(ui.out, "2. Create a New Account")
		fmt.Fprintln(ui.out, "3. Deposit Funds")
		fmt.Fprintln(ui.out, "4. Withdraw Funds")
		fmt.Fprintln(ui.out, "5. Exit")
		fmt.Fprintln(ui.out, "6. Check Balance")
		fmt.Fprintln(ui.out, "7. View Transaction History")
		fmt.Fprintln(ui.out, "8. Login")
		fmt.Fprintln(ui.out, "9. Freeze Account")
		fmt.Fprint(ui.out, "> ")

		choice, err := ui.readLine()
		if err != nil {
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = ui.register(ctx)
		case "2":
			err = ui.createAccount(ctx)
		case "3":
			err = ui.deposit(ctx)
		case "4":
			err = ui.withdraw(ctx)
		case "5":
			fmt.Fprintln(ui.out, "Goodbye!")
			return
		case "6":
			err = ui.balance(ctx)
		case "7":
			err = ui.history(ctx)
		case "8":
			err = ui.login(ctx)
		case "9":
			err = ui.freeze(ctx)
		default:
			fmt.Fprintln(ui.out, "Invalid option. Please try again.")
		}
		if errors.Is(err, errInputClosed) {
			return
		}
	}
}

func (ui *UI) register(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Register User:")
	var req services.RegisterRequest
	var err error
	if req.Name, err = ui.prompt("Enter Name: "); err != nil {
		return err
	}
	if req.Address, err = ui.prompt("Enter Address: "); err != nil {
		return err
	}
	if req.PhoneNumber, err = ui.prompt("Enter Phone Number: "); err != nil {
		return err
	}
	if req.Email, err = ui.prompt("Enter Email: "); err != nil {
		return err
	}
	if req.Password, err = ui.prompt("Enter Password: "); err != nil {
		return err
	}
	amount, ok, err := ui.promptAmount("Enter Initial Balance: ")
	if err != nil || !ok {
		return err
	}
	req.InitialDeposit = amount

	user, account, err := ui.accounts.RegisterUser(ctx, req)
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "User registered! User ID: %d, Savings Account ID: %d, Balance: %s\n",
		user.UserID, account.AccountID, account.Balance.StringFixed(2))
	return nil
}

func (ui *UI) createAccount(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Create a New Account:")
	userID, ok, err := ui.promptID("Enter User ID: ")
	if err != nil || !ok {
		return err
	}
	accountType, err := ui.prompt("Enter Account Type (Savings/Current): ")
	if err != nil {
		return err
	}

	account, err := ui.accounts.CreateAccount(ctx, userID, models.AccountType(accountType))
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "Account Created Successfully! Account ID: %d\n", account.AccountID)
	return nil
}

func (ui *UI) deposit(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Deposit Funds:")
	return ui.move(ctx, ui.ledger.Deposit, "Funds Deposited Successfully!")
}

func (ui *UI) withdraw(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Withdraw Funds:")
	return ui.move(ctx, ui.ledger.Withdraw, "Funds Withdrawn Successfully!")
}

func (ui *UI) move(ctx context.Context, op func(context.Context, int64, decimal.Decimal) (decimal.Decimal, error), done string) error {
	accountID, ok, err := ui.promptID("Enter Account ID: ")
	if err != nil || !ok {
		return err
	}
	amount, ok, err := ui.promptAmount("Enter Amount: ")
	if err != nil || !ok {
		return err
	}

	balance, err := op(ctx, accountID, amount)
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "%s New balance: %s\n", done, balance.StringFixed(2))
	return nil
}

func (ui *UI) balance(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Check Balance:")
	accountID, ok, err := ui.promptID("Enter Account ID: ")
	if err != nil || !ok {
		return err
	}

	balance, err := ui.ledger.GetBalance(ctx, accountID)
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "The current balance for Account ID %d is: %s\n", accountID, balance.StringFixed(2))
	return nil
}

func (ui *UI) history(ctx context.Context) error {
	fmt.Fprintln(ui.out, "View Transaction History:")
	accountID, ok, err := ui.promptID("Enter Account ID: ")
	if err != nil || !ok {
		return err
	}
	raw, err := ui.prompt("Limit (0 for all): ")
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(raw)

	txs, err := ui.accounts.History(ctx, accountID, limit)
	if err != nil {
		ui.fail(err)
		return nil
	}
	if len(txs) == 0 {
		fmt.Fprintln(ui.out, "No transactions.")
		return nil
	}

	fmt.Fprintln(ui.out, "Transaction ID | Amount     | Type       | Date")
	for _, t := range txs {
		fmt.Fprintf(ui.out, "%-14d | %10s | %-10s | %s\n",
			t.TransactionID, t.Amount.StringFixed(2), t.Type, t.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func (ui *UI) login(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Login:")
	accountID, ok, err := ui.promptID("Enter Account Number: ")
	if err != nil || !ok {
		return err
	}
	password, err := ui.prompt("Enter Password: ")
	if err != nil {
		return err
	}

	authenticated, err := ui.ledger.Authenticate(ctx, accountID, password)
	if err != nil {
		ui.fail(err)
		return nil
	}
	if authenticated {
		fmt.Fprintln(ui.out, "Login successful!")
	} else {
		fmt.Fprintln(ui.out, "Invalid Account Number or Password.")
	}
	return nil
}

func (ui *UI) freeze(ctx context.Context) error {
	code, err := ui.prompt("Enter the USSD code to freeze your account: ")
	if err != nil {
		return err
	}
	accountID, ok, err := ui.promptID("Enter your Account ID: ")
	if err != nil || !ok {
		return err
	}

	affected, err := ui.ledger.FreezeWithCode(ctx, code, accountID)
	if err != nil {
		ui.fail(err)
		return nil
	}
	if affected {
		fmt.Fprintln(ui.out, "Your account has been frozen.")
	} else {
		fmt.Fprintln(ui.out, "No active account found with that ID; nothing was frozen.")
	}
	return nil
}

func (ui *UI) fail(err error) {
	fmt.Fprintln(ui.out, "Error:", services.Message(err))
}

func (ui *UI) readLine() (string, error) {
	s, err := ui.in.ReadString('\n')
	if err != nil && s == "" {
		return "", errInputClosed
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (ui *UI) prompt(label string) (string, error) {
	fmt.Fprint(ui.out, label)
	s, err := ui.readLine()
	return strings.TrimSpace(s), err
}

// promptID reads a numeric identifier; ok is false when the input was not a number
func (ui *UI) promptID(label string) (int64, bool, error) {
	raw, err := ui.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		fmt.Fprintln(ui.out, "Invalid ID. Please enter digits only.")
		return 0, false, nil
	}
	return id, true, nil
}

func (ui *UI) promptAmount(label string) (decimal.Decimal, bool, error) {
	raw, err := ui.prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, perr := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if perr != nil {
		fmt.Fprintln(ui.out, "Invalid amount. Example: 100.50")
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}
