package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"

	"github.com/illarion/cryptify/cmd"
	"github.com/illarion/cryptify/internal/boundary"
	"github.com/illarion/cryptify/internal/config"
	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/logging"
)

func main() {
	// Wipe secrets on Ctrl-C and on normal return.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg, args, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		printUsage()
		cmd.Exit(1)
	}
	level, _ := cfg.Level()
	log := logging.New(os.Stderr, level)
	boundary.SetLogger(log)
	env := &cmd.Env{Config: cfg, Log: log}

	if len(args) < 1 {
		printUsage()
		cmd.Exit(1)
	}

	switch args[0] {
	case "init":
		runInit(ctx, env, args[1:])
	case "add":
		runAdd(ctx, env, args[1:])
	case "get":
		runGet(ctx, env, args[1:])
	case "edit":
		runEdit(ctx, env, args[1:])
	case "ls", "list":
		runLs(ctx, env, args[1:])
	case "rm":
		runRm(ctx, env, args[1:])
	case "passwd":
		runPasswd(ctx, env, args[1:])
	case "genpass":
		runGenPass(args[1:])
	case "verify", "status":
		runVerify(ctx, env, args[1:])
	case "compact":
		runCompact(env, args[1:])
	case "keyring":
		runKeyring(ctx, env, args[1:])
	case "completion":
		runCompletion(args[1:])
	case "help", "-h", "--help":
		if len(args) <= 1 {
			printUsage()
			return
		}
		printCommandHelp(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		cmd.Exit(1)
	}
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		cmd.Exit(1)
	}
}

// generateFlags registers the password generation flags on fs.
func generateFlags(fs *flag.FlagSet, flagName string) func() cmd.GenerateOptions {
	enabled := false
	if flagName != "" {
		fs.BoolVar(&enabled, flagName, false, "Generate a random password")
	}
	length := fs.Int("length", 20, "Length of a generated password")
	noUpper := fs.Bool("no-upper", false, "Leave out uppercase letters")
	noDigits := fs.Bool("no-digits", false, "Leave out digits")
	noSpecial := fs.Bool("no-special", false, "Leave out special characters")

	return func() cmd.GenerateOptions {
		opts := crypto.DefaultPasswordOptions()
		opts.Uppercase = opts.Uppercase && !*noUpper
		opts.Digits = opts.Digits && !*noDigits
		opts.Special = opts.Special && !*noSpecial
		return cmd.GenerateOptions{
			Enabled:         enabled,
			Length:          *length,
			PasswordOptions: opts,
		}
	}
}

// optional records whether a string flag was set explicitly.
type optional struct {
	value *string
}

func (o *optional) String() string {
	if o.value == nil {
		return ""
	}
	return *o.value
}

func (o *optional) Set(s string) error {
	o.value = &s
	return nil
}

func runInit(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	save := fs.Bool("keyring", false, "Save the master password to the OS keyring")
	parse(fs, args)

	cmd.Init(ctx, env, *save)
}

func runAdd(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	username := fs.String("u", "", "Username for the service")
	url := fs.String("url", "", "URL of the service")
	notes := fs.String("notes", "", "Free-form notes")
	gen := generateFlags(fs, "g")
	parse(fs, args)

	cmd.Add(ctx, env, core.NewEntry{
		Service:  fs.Arg(0),
		Username: *username,
		URL:      *url,
		Notes:    *notes,
	}, gen())
}

func runGet(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	all := fs.Bool("all", false, "Print every field, not just the password")
	parse(fs, args)

	cmd.Get(ctx, env, fs.Arg(0), *all)
}

func runEdit(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	var username, url, notes optional
	fs.Var(&username, "u", "New username")
	fs.Var(&url, "url", "New URL")
	fs.Var(&notes, "notes", "New notes")
	password := fs.Bool("password", false, "Prompt for a new password")
	gen := generateFlags(fs, "g")
	parse(fs, args)

	cmd.Edit(ctx, env, fs.Arg(0), core.EntryUpdate{
		Username: username.value,
		URL:      url.value,
		Notes:    notes.value,
	}, *password, gen())
}

func runLs(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	long := fs.Bool("l", false, "Show usernames, URLs and update times")
	quiet := fs.Bool("q", false, "Print service names only")
	parse(fs, args)

	cmd.Ls(ctx, env, *long, *quiet)
}

func runRm(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	parse(fs, args)

	cmd.Remove(ctx, env, fs.Args())
}

func runPasswd(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	parse(fs, args)

	cmd.Passwd(ctx, env)
}

func runGenPass(args []string) {
	fs := flag.NewFlagSet("genpass", flag.ExitOnError)
	count := fs.Int("n", 1, "Number of passwords to print")
	gen := generateFlags(fs, "")
	parse(fs, args)

	cmd.GenPass(gen(), *count)
}

func runVerify(ctx context.Context, env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	parse(fs, args)

	cmd.Verify(ctx, env)
}

func runCompact(env *cmd.Env, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parse(fs, args)

	cmd.Compact(env)
}

func runKeyring(ctx context.Context, env *cmd.Env, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cryptify keyring <save|delete|status>")
		cmd.Exit(1)
	}
	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx, env)
	case "delete":
		cmd.KeyringDelete(ctx, env)
	case "status":
		cmd.KeyringStatus(env)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: cryptify keyring <save|delete|status>")
		cmd.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cryptify completion <bash|zsh|fish>")
		cmd.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("cryptify - Local password vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cryptify [-vault path] [-log-level level] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new vault")
	fmt.Println("  add         Store a new credential")
	fmt.Println("  get         Print a stored password")
	fmt.Println("  edit        Change a stored credential")
	fmt.Println("  ls          List stored services")
	fmt.Println("  rm          Remove credentials")
	fmt.Println("  passwd      Change the master password")
	fmt.Println("  genpass     Generate random passwords")
	fmt.Println("  verify      Check the master password and show vault details")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage the master password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  CRYPTIFY_VAULT      Vault file (default: user config dir)")
	fmt.Println("  CRYPTIFY_PASSWORD   Master password, skips the prompt")
	fmt.Println("  CRYPTIFY_KEYRING    Set to false to ignore the OS keyring")
	fmt.Println("  CRYPTIFY_LOG_LEVEL  debug, info, warn (default) or error")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  cryptify init                          # Create new vault")
	fmt.Println("  cryptify add -u octocat -g github.com  # Store a generated password")
	fmt.Println("  cryptify get github.com | pbcopy       # Copy a password")
	fmt.Println()
	fmt.Println("Use 'cryptify help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("cryptify init [-keyring]")
		fmt.Println()
		fmt.Println("Creates a new vault file. Prompts for a master password, which is")
		fmt.Println("stretched with Argon2id. Only a SHA-256 hash of the derived key is stored;")
		fmt.Println("the password cannot be recovered.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -keyring    Also save the master password to the OS keyring")
	case "add":
		fmt.Println("cryptify add [-u user] [-url url] [-notes text] [-g [-length n]] <service>")
		fmt.Println()
		fmt.Println("Stores a credential. The password is prompted for, or generated with -g.")
		fmt.Println("Each service name can be stored once; use 'edit' to change it.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -u            Username")
		fmt.Println("  -url          URL")
		fmt.Println("  -notes        Notes")
		fmt.Println("  -g            Generate the password")
		fmt.Println("  -length       Generated length, 8 to 128 (default 20)")
		fmt.Println("  -no-upper     Leave out uppercase letters")
		fmt.Println("  -no-digits    Leave out digits")
		fmt.Println("  -no-special   Leave out special characters")
		fmt.Println()
		fmt.Println("Flags must come before the service name.")
	case "get":
		fmt.Println("cryptify get [-all] <service>")
		fmt.Println()
		fmt.Println("Prints the stored password. With -all, prints every field.")
		fmt.Println("Without a terminal no trailing newline is written, so output can be piped.")
	case "edit":
		fmt.Println("cryptify edit [-u user] [-url url] [-notes text] [-password | -g] <service>")
		fmt.Println()
		fmt.Println("Changes fields of a stored credential. Only the given flags are changed.")
		fmt.Println("-password prompts for a new password, -g generates one.")
	case "ls", "list":
		fmt.Println("cryptify ls [-l] [-q]")
		fmt.Println()
		fmt.Println("Lists stored services. Does not require a password.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -l    Long listing with usernames, URLs and update times")
		fmt.Println("  -q    Service names only, one per line")
	case "rm":
		fmt.Println("cryptify rm <service> [service...]")
		fmt.Println()
		fmt.Println("Removes credentials. Nothing is removed if any service does not exist.")
	case "passwd":
		fmt.Println("cryptify passwd")
		fmt.Println()
		fmt.Println("Changes the master password. Every stored password is re-encrypted")
		fmt.Println("under a key derived from the new password and a fresh salt.")
	case "genpass":
		fmt.Println("cryptify genpass [-length n] [-n count] [-no-upper] [-no-digits] [-no-special]")
		fmt.Println()
		fmt.Println("Prints random passwords without touching the vault. Every enabled")
		fmt.Println("character class appears at least once.")
	case "verify", "status":
		fmt.Println("cryptify verify")
		fmt.Println()
		fmt.Println("Checks the master password and shows vault details.")
	case "compact":
		fmt.Println("cryptify compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm' and 'passwd' commands.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("cryptify keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the master password in the OS keyring. A saved password is")
		fmt.Println("used instead of prompting unless CRYPTIFY_KEYRING=false.")
	case "completion":
		fmt.Println("cryptify completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(cryptify completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(cryptify completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  cryptify completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
