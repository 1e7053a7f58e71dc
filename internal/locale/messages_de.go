package locale

import "golang.org/x/text/language"

// builtin holds the translations shipped with the server, keyed by the
// English format string.
var builtin = map[language.Tag]map[string]string{
	language.German: german,
}

var german = map[string]string{
	// Dispatcher.
	"Done.":                                   "Erledigt.",
	"The command was aborted.":                "Der Befehl wurde abgebrochen.",
	"Something went wrong while running '%s'.": "Beim Ausführen von '%s' ist etwas schiefgegangen.",

	// Help.
	"Available commands:": "Verfügbare Befehle:",
	"See '/help <command>' for details on a command.": "Siehe '/help <Befehl>' für Details zu einem Befehl.",
	"Usage: %s":      "Verwendung: %s",
	"Sub-commands:":  "Unterbefehle:",
	"Flags:":         "Optionen:",
	"Arguments:":     "Argumente:",
	"Aliases: %s":    "Aliase: %s",
	"Same as /%s.":   "Wie /%s.",

	// Refusals.
	"You do not have permission to use '%s' (%s).":          "Du darfst '%s' nicht verwenden (%s).",
	"You do not have permission to use '%s'.":               "Du darfst '%s' nicht verwenden.",
	"'%s' is on cooldown for %s.":                           "'%s' ist noch %s gesperrt.",
	"You are sending commands too quickly.":                 "Du sendest Befehle zu schnell.",
	"'%s' was cancelled.":                                   "'%s' wurde abgebrochen.",
	"Invalid argument '%s', expected %s.":                   "Ungültiges Argument '%s', erwartet: %s.",
	"Missing required argument '%s'.":                       "Pflichtargument '%s' fehlt.",
	"'%s' is not a command. See '/help'. Did you mean: %s?": "'%s' ist kein Befehl. Siehe '/help'. Meintest du: %s?",
	"'%s' is not a command. See '/help'.":                   "'%s' ist kein Befehl. Siehe '/help'.",
	"'%s' is not a subcommand of '%s'. Did you mean: %s?":   "'%s' ist kein Unterbefehl von '%s'. Meintest du: %s?",
	"'%s' is not a subcommand of '%s'.":                     "'%s' ist kein Unterbefehl von '%s'.",
	"Commands start with '/'.":                              "Befehle beginnen mit '/'.",

	// Built-in commands.
	"switchboard version %s":        "switchboard Version %s",
	"Online (%d): %s":               "Online (%d): %s",
	"Nobody is online.":             "Niemand ist online.",
	"There is nothing to confirm.":  "Es gibt nichts zu bestätigen.",
	"Cleared %d active cooldown(s) for %s.": "%d aktive Abklingzeit(en) von %s aufgehoben.",
	"%s rolled %s (total %d).":      "%s würfelt %s (Summe %d).",
	"[Broadcast] %s: %s":            "[Rundruf] %s: %s",

	"Only operators can go on or off duty.": "Nur Operatoren können den Dienst an- oder abtreten.",
	"You are now on duty.":                  "Du bist jetzt im Dienst.",
	"You are now off duty. Permission and cooldown checks no longer apply to you.": "Du bist jetzt außer Dienst. Berechtigungen und Abklingzeiten gelten nicht mehr für dich.",

	"Granted %s to %s.":         "%s an %s vergeben.",
	"Revoked %s from %s.":       "%s von %s entzogen.",
	"%s does not have %s.":      "%s hat %s nicht.",
	"%s holds: %s":              "%s besitzt: %s",
	"%s holds no permissions.":  "%s besitzt keine Berechtigungen.",
	"This removes every permission of %s. Type /confirm within %s to proceed.": "Damit werden alle Berechtigungen von %s entfernt. Gib innerhalb von %s /confirm ein, um fortzufahren.",
	"Removed %d permission(s) from %s.": "%d Berechtigung(en) von %s entfernt.",
	"Nothing was removed from %s.":      "Von %s wurde nichts entfernt.",

	"%s is not online.":                      "%s ist nicht online.",
	"You cannot duel yourself.":              "Du kannst dich nicht selbst herausfordern.",
	"%s already has a pending duel request.": "%s hat bereits eine offene Duellanfrage.",
	"You challenged %s to a duel. They have %s to answer.":          "Du hast %s zum Duell herausgefordert. Antwortzeit: %s.",
	"%s challenges you to a duel! Type /accept or /deny within %s.": "%s fordert dich zum Duell! Gib innerhalb von %s /accept oder /deny ein.",
	"%s won the duel against %s!":                   "%s hat das Duell gegen %s gewonnen!",
	"%s declined your duel.":                        "%s hat dein Duell abgelehnt.",
	"You declined the duel with %s.":                "Du hast das Duell mit %s abgelehnt.",
	"%s did not answer your duel request in time.":  "%s hat nicht rechtzeitig auf deine Duellanfrage geantwortet.",
	"The duel request from %s expired.":             "Die Duellanfrage von %s ist abgelaufen.",
	"%s left before answering your duel request.":   "%s ist gegangen, ohne auf deine Duellanfrage zu antworten.",
	"You have no pending duel requests.":            "Du hast keine offenen Duellanfragen.",
}
