package cmd

import (
	"fmt"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		Fail("unknown shell: %s\nSupported: bash, zsh, fish", shell)
	}
}

const bashCompletion = `_cryptify() {
    local cur prev words cword
    _init_completion || return

    local commands="init add get edit ls rm passwd genpass verify compact keyring completion help"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        get|edit|rm)
            if [[ "$cur" == -* ]]; then
                case "$cmd" in
                    get)  COMPREPLY=($(compgen -W "-all" -- "$cur")) ;;
                    edit) COMPREPLY=($(compgen -W "-u -url -notes -password -g -length -no-upper -no-digits -no-special" -- "$cur")) ;;
                esac
            else
                COMPREPLY=($(compgen -W "$(cryptify ls -q 2>/dev/null)" -- "$cur"))
            fi
            ;;
        add)
            COMPREPLY=($(compgen -W "-u -url -notes -g -length -no-upper -no-digits -no-special" -- "$cur"))
            ;;
        genpass)
            COMPREPLY=($(compgen -W "-length -n -no-upper -no-digits -no-special" -- "$cur"))
            ;;
        ls)
            COMPREPLY=($(compgen -W "-l -q" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _cryptify cryptify
`

const zshCompletion = `#compdef cryptify

_cryptify() {
    local -a commands
    commands=(
        'init:Create a new password vault'
        'add:Store a new credential'
        'get:Print a stored password'
        'edit:Change a stored credential'
        'ls:List stored services'
        'rm:Remove credentials'
        'passwd:Change the master password'
        'genpass:Generate random passwords'
        'verify:Check the master password and show vault details'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage master password in OS keyring'
        'completion:Generate shell completions'
        'help:Show help for a command'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'cryptify commands' commands
            ;;
        args)
            case "${words[2]}" in
                get)
                    _arguments '-all[Print every field]' '*:service:_cryptify_services'
                    ;;
                edit|rm)
                    _arguments '*:service:_cryptify_services'
                    ;;
                ls)
                    _arguments '-l[Long listing]' '-q[Service names only]'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'cryptify commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_cryptify_services() {
    local -a services
    services=(${(f)"$(cryptify ls -q 2>/dev/null)"})
    _describe -t services 'stored services' services
}

_cryptify "$@"
`

const fishCompletion = `# cryptify fish completions

set -l commands init add get edit ls rm passwd genpass verify compact keyring completion help

complete -c cryptify -f

# Commands
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new password vault'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a add -d 'Store a new credential'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a get -d 'Print a stored password'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a edit -d 'Change a stored credential'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List stored services'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove credentials'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change the master password'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a genpass -d 'Generate random passwords'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a verify -d 'Check the master password'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'
complete -c cryptify -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'

# stored services
complete -c cryptify -n "__fish_seen_subcommand_from get edit rm" -a "(cryptify ls -q 2>/dev/null)"

# keyring subcommands
complete -c cryptify -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c cryptify -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c cryptify -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
