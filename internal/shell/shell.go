// Package shell is the interactive console over the ledger service: login
// loop, role-scoped menus, and amount/password prompts. It is deliberately
// thin glue; every rule lives in the ledger core, and the shell only maps
// domain errors to messages.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ruralpay/teller/internal/credential"
	"github.com/ruralpay/teller/internal/ledger"
	"github.com/ruralpay/teller/internal/logger"
	"github.com/ruralpay/teller/internal/money"
)

type Shell struct {
	svc    *ledger.Service
	tokens *credential.RenameTokens
	in     *bufio.Reader
	out    io.Writer
}

func New(svc *ledger.Service, tokens *credential.RenameTokens) *Shell {
	return &Shell{
		svc:    svc,
		tokens: tokens,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run drives the login loop until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "=== Teller ===")

	for {
		fmt.Fprintln(s.out, "\nLogin as:")
		fmt.Fprintln(s.out, "1. Admin")
		fmt.Fprintln(s.out, "2. Customer")
		fmt.Fprintln(s.out, "3. Exit")

		option, err := s.readLine("Option: ")
		if err != nil {
			return err
		}

		switch option {
		case "1":
			name, err := s.readLine("Admin name: ")
			if err != nil {
				return err
			}
			secret, err := s.readSecret("Admin password: ")
			if err != nil {
				return err
			}
			if err := s.svc.AuthenticateAdmin(name, secret); err != nil {
				log.Printf("[SHELL] failed admin login attempt")
				fmt.Fprintln(s.out, "Access denied.")
				continue
			}
			logger.Info("admin session started", logger.Fields{"admin": name})
			s.adminSession(ctx, name, secret)
		case "2":
			name, err := s.readLine("Your name: ")
			if err != nil {
				return err
			}
			secret, err := s.readSecret("Your password: ")
			if err != nil {
				return err
			}
			// Uniform message: login never reveals whether the account
			// exists or the password was wrong.
			if err := s.svc.Login(ctx, name, secret); err != nil {
				log.Printf("[SHELL] failed customer login attempt")
				fmt.Fprintln(s.out, "Access denied.")
				continue
			}
			logger.Info("customer session started", logger.Fields{"account": name})
			s.customerSession(ctx, name, secret)
		case "3":
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option.")
		}
	}
}

func (s *Shell) adminSession(ctx context.Context, adminName, adminSecret string) {
	for {
		fmt.Fprintln(s.out, "\n--- Admin Menu ---")
		fmt.Fprintln(s.out, "1. Create Account")
		fmt.Fprintln(s.out, "2. Delete Account")
		fmt.Fprintln(s.out, "3. Freeze Account")
		fmt.Fprintln(s.out, "4. Unfreeze Account")
		fmt.Fprintln(s.out, "5. Issue Rename Token")
		fmt.Fprintln(s.out, "6. Rename Account")
		fmt.Fprintln(s.out, "7. Show Accounts")
		fmt.Fprintln(s.out, "8. Logout")

		option, err := s.readLine("Option: ")
		if err != nil {
			return
		}

		switch option {
		case "1":
			s.createAccount(ctx)
		case "2":
			id, err := s.readLine("Name: ")
			if err != nil {
				return
			}
			s.report(s.svc.Delete(ctx, id), "Account %s deleted.", id)
		case "3":
			id, err := s.readLine("Name: ")
			if err != nil {
				return
			}
			s.report(s.svc.Freeze(ctx, id), "Account %s frozen.", id)
		case "4":
			id, err := s.readLine("Name: ")
			if err != nil {
				return
			}
			s.report(s.svc.Unfreeze(ctx, id), "Account %s active.", id)
		case "5":
			s.issueRenameToken()
		case "6":
			s.renameAccount(ctx)
		case "7":
			s.showAccounts(ctx, adminName, adminSecret)
		case "8":
			fmt.Fprintln(s.out, "Logged out.")
			return
		default:
			fmt.Fprintln(s.out, "Invalid option.")
		}
	}
}

func (s *Shell) customerSession(ctx context.Context, name, secret string) {
	for {
		fmt.Fprintln(s.out, "\n--- Customer Menu ---")
		fmt.Fprintln(s.out, "1. Deposit")
		fmt.Fprintln(s.out, "2. Withdraw")
		fmt.Fprintln(s.out, "3. Transfer")
		fmt.Fprintln(s.out, "4. Show My Account")
		fmt.Fprintln(s.out, "5. History")
		fmt.Fprintln(s.out, "6. Logout")

		option, err := s.readLine("Option: ")
		if err != nil {
			return
		}

		switch option {
		case "1":
			amount, err := s.readAmount("Deposit amount: ")
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			balance, err := s.svc.Deposit(ctx, ledger.DepositRequest{ID: name, Secret: secret, Amount: amount})
			s.report(err, "Deposited. New balance: %s", money.Format(balance))
		case "2":
			amount, err := s.readAmount("Withdrawal amount: ")
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			balance, err := s.svc.Withdraw(ctx, ledger.WithdrawRequest{ID: name, Secret: secret, Amount: amount})
			s.report(err, "Withdrawn. New balance: %s", money.Format(balance))
		case "3":
			target, err := s.readLine("Transfer to: ")
			if err != nil {
				return
			}
			amount, err := s.readAmount("Transfer amount: ")
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			err = s.svc.Transfer(ctx, ledger.TransferRequest{SourceID: name, Secret: secret, TargetID: target, Amount: amount})
			s.report(err, "Transferred %s to %s.", money.Format(amount), target)
		case "4":
			sum, err := s.svc.Summary(ctx, name, secret)
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(s.out, "Name: %s, Balance: %s (%s)\n", sum.ID, money.Format(sum.Balance), sum.Status)
		case "5":
			events, err := s.svc.History(ctx, name, secret)
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			for _, e := range events {
				fmt.Fprintf(s.out, "%s  %-14s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, money.Format(e.Amount))
			}
		case "6":
			fmt.Fprintln(s.out, "Logged out.")
			return
		default:
			fmt.Fprintln(s.out, "Invalid option.")
		}
	}
}

func (s *Shell) createAccount(ctx context.Context) {
	id, err := s.readLine("Name: ")
	if err != nil {
		return
	}
	secret, err := s.readSecret(fmt.Sprintf("Set password for %s: ", id))
	if err != nil {
		return
	}
	deposit, err := s.readAmount("Initial deposit: ")
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	sum, err := s.svc.Create(ctx, ledger.CreateAccountRequest{ID: id, InitialDeposit: deposit, Secret: secret})
	s.report(err, "Account created for %s with balance %s.", sum.ID, money.Format(sum.Balance))
}

func (s *Shell) issueRenameToken() {
	id, err := s.readLine("Account to authorize: ")
	if err != nil {
		return
	}
	token, err := s.tokens.Issue(id)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Rename token for %s:\n%s\n", id, token)
}

func (s *Shell) renameAccount(ctx context.Context) {
	id, err := s.readLine("Current name: ")
	if err != nil {
		return
	}
	newID, err := s.readLine("New name: ")
	if err != nil {
		return
	}
	token, err := s.readLine("Rename token: ")
	if err != nil {
		return
	}
	s.report(s.svc.Rename(ctx, ledger.RenameRequest{ID: id, NewID: newID, Token: token}), "Account %s renamed to %s.", id, newID)
}

func (s *Shell) showAccounts(ctx context.Context, adminName, adminSecret string) {
	summaries, err := s.svc.ListAll(ctx, adminName, adminSecret)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(summaries) == 0 {
		fmt.Fprintln(s.out, "No accounts found.")
		return
	}
	fmt.Fprintln(s.out, "Accounts:")
	for _, sum := range summaries {
		fmt.Fprintf(s.out, "Name: %s, Balance: %s (%s)\n", sum.ID, money.Format(sum.Balance), sum.Status)
	}
}

// report prints the success message or the mapped error.
func (s *Shell) report(err error, format string, args ...any) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", userMessage(err))
		return
	}
	fmt.Fprintf(s.out, format+"\n", args...)
}

// userMessage maps domain errors to console wording; unknown errors pass
// through as-is.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return "account not found"
	case errors.Is(err, ledger.ErrDuplicateAccount):
		return "account already exists"
	case errors.Is(err, ledger.ErrAuthentication):
		return "access denied"
	case errors.Is(err, ledger.ErrFrozenAccount):
		return "account is frozen"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient funds"
	case errors.Is(err, ledger.ErrInvalidState):
		return "account is already in that state"
	case errors.Is(err, ledger.ErrConcurrency):
		return "the ledger is busy, try again"
	case errors.Is(err, ledger.ErrValidation):
		return "invalid input"
	default:
		return err.Error()
	}
}

func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return trim(line), nil
}

// readSecret reads without echo when stdin is a terminal, falling back to a
// plain line read otherwise (pipes, tests).
func (s *Shell) readSecret(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return trim(line), nil
}

func (s *Shell) readAmount(prompt string) (int64, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, err
	}
	return money.Parse(line)
}

func trim(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
