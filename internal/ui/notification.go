package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogWarn  = "dialog-warning"

	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification in the graphical session of the user
// owning $DISPLAY. The daemon runs as root, so notify-send is invoked on behalf of that user.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Not sending notification, missing env variable 'DISPLAY'")
		return
	}

	user, userId, err := findDisplayUser(display)
	if err != nil {
		Warning("Cannot send notification: %v", err)
		return
	}

	cmd := exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userId+"/bus",
		"notify-send",
		"-a", "ventora",
		"-u", urgency,
		"-i", icon,
		title, text,
	)
	if err = cmd.Run(); err != nil {
		Error("Error sending notification: %v", err)
	}
}

func findDisplayUser(display string) (user string, userId string, err error) {
	output, err := exec.Command("who").Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to list sessions: %w", err)
	}
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.Contains(line, display) {
			user = fields[0]
			break
		}
	}
	if len(user) <= 0 {
		return "", "", fmt.Errorf("no session found for display %s", display)
	}

	output, err = exec.Command("id", "-u", user).Output()
	userId = strings.TrimSpace(string(output))
	if err != nil || len(userId) <= 0 {
		return "", "", fmt.Errorf("unable to detect user id of %s: %v", user, err)
	}
	return user, userId, nil
}
