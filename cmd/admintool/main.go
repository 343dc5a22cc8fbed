// Command admintool manages admin accounts directly against the database.
//
//	admintool create -email a@x.com [-name Ana] [-password secret]
//	admintool list
//	admintool edit   -email a@x.com [-new-name ..] [-new-email ..] [-new-password ..]
//	admintool delete -email a@x.com -yes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/restaurant-app/internal/config"
	dbpkg "github.com/BruksfildServices01/restaurant-app/internal/db"
	"github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	infraRepo "github.com/BruksfildServices01/restaurant-app/internal/infra/repository"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	ucAdmin "github.com/BruksfildServices01/restaurant-app/internal/usecase/admin"
	ucAuth "github.com/BruksfildServices01/restaurant-app/internal/usecase/auth"
)

var errUsage = errors.New("usage: admintool <create|list|edit|delete> [flags]")

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}

	if err := newTool(db, os.Stdout).run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

type tool struct {
	users    account.Repository
	register *ucAuth.Register
	setRole  *ucAdmin.SetRole
	manage   *ucAdmin.Users
	out      io.Writer
}

func newTool(db *gorm.DB, out io.Writer) *tool {
	users := infraRepo.NewUserGormRepository(db)
	return &tool{
		users:    users,
		register: ucAuth.NewRegister(users, nil),
		setRole:  ucAdmin.NewSetRole(users, nil),
		manage:   ucAdmin.NewUsers(users, nil),
		out:      out,
	}
}

func (t *tool) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "create":
		return t.create(ctx, args[1:])
	case "list":
		return t.list(ctx)
	case "edit":
		return t.edit(ctx, args[1:])
	case "delete":
		return t.delete(ctx, args[1:])
	default:
		return errUsage
	}
}

// create promotes an existing user, or registers a new one as admin.
func (t *tool) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(t.out)
	email := fs.String("email", "", "admin email (existing or new)")
	name := fs.String("name", "Admin", "name for a new admin")
	password := fs.String("password", "admin123", "password for a new admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("create: -email is required")
	}

	existing, err := t.users.FindByEmail(ctx, account.NormalizeEmail(*email))
	switch {
	case err == nil:
		if _, err := t.setRole.Promote(ctx, 0, existing.ID); err != nil {
			return describe(err)
		}
		fmt.Fprintf(t.out, "updated existing user %s -> admin\n", existing.Email)
		return nil
	case !errors.Is(err, account.ErrNotFound):
		return err
	}

	u, err := t.register.Execute(ctx, ucAuth.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return describe(err)
	}
	if _, err := t.setRole.Promote(ctx, 0, u.ID); err != nil {
		return describe(err)
	}
	fmt.Fprintf(t.out, "created new admin user: %s\n", u.Email)
	return nil
}

func (t *tool) list(ctx context.Context) error {
	admins, err := t.manage.List(ctx, string(account.RoleAdmin))
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		fmt.Fprintln(t.out, "no admins found")
		return nil
	}

	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
	for _, a := range admins {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.CreatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

func (t *tool) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(t.out)
	email := fs.String("email", "", "admin to edit")
	newName := fs.String("new-name", "", "new name")
	newEmail := fs.String("new-email", "", "new email")
	newPassword := fs.String("new-password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := t.findAdmin(ctx, *email)
	if err != nil {
		return err
	}

	var in ucAdmin.UpdateUserInput
	if *newName != "" {
		in.Name = newName
	}
	if *newEmail != "" {
		in.Email = newEmail
	}
	if *newPassword != "" {
		in.Password = newPassword
	}

	u, err := t.manage.Update(ctx, 0, admin.ID, in)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(t.out, "admin %s updated\n", u.Email)
	return nil
}

func (t *tool) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(t.out)
	email := fs.String("email", "", "admin to delete")
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := t.findAdmin(ctx, *email)
	if err != nil {
		return err
	}
	if !*yes {
		fmt.Fprintf(t.out, "refusing to delete %s without -yes\n", admin.Email)
		return nil
	}

	if err := t.manage.Delete(ctx, 0, admin.ID); err != nil {
		return describe(err)
	}
	fmt.Fprintf(t.out, "admin %s deleted\n", admin.Email)
	return nil
}

func (t *tool) findAdmin(ctx context.Context, email string) (*models.User, error) {
	email = account.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("-email is required")
	}

	u, err := t.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, fmt.Errorf("no admin found with email: %s", email)
		}
		return nil, err
	}
	if account.Role(u.Role) != account.RoleAdmin {
		return nil, fmt.Errorf("no admin found with email: %s", email)
	}
	return u, nil
}

func describe(err error) error {
	if code, ok := httperr.BusinessCode(err); ok {
		return fmt.Errorf("rejected: %s", code)
	}
	return err
}
