package app

import "github.com/notexe/reminders/internal/command"

// Menu item types.
const (
	ItemNormal    = "normal"
	ItemCheckbox  = "checkbox"
	ItemSeparator = "separator"
)

// MenuItem describes a native menu entry. Rendering it is up to the shell;
// clicking it dispatches Command.
type MenuItem struct {
	Label       string
	Type        string
	Accelerator string
	Checked     bool
	Command     command.Command
	Submenu     []MenuItem
}

const quitAccelerator = "CmdOrCtrl+Q"

// ApplicationMenu returns the menu bar. On macOS "About" lives under the
// app-name menu, elsewhere under "Help".
func (a *App) ApplicationMenu() []MenuItem {
	about := MenuItem{Label: "About", Type: ItemNormal, Command: command.About}

	file := MenuItem{
		Label: "File",
		Type:  ItemNormal,
		Submenu: []MenuItem{
			{Label: "Add Reminder...", Type: ItemNormal, Accelerator: "CmdOrCtrl+N", Command: command.AddReminder},
			{Label: "Open Data Source...", Type: ItemNormal, Accelerator: "CmdOrCtrl+O", Command: command.SetSource},
			{Label: "Reload", Type: ItemNormal, Accelerator: "CmdOrCtrl+R", Command: command.LoadReminders},
			{Type: ItemSeparator},
			{Label: "Keep in Tray", Type: ItemCheckbox, Checked: a.TrayEnabled(), Command: command.ToggleKeepInTray},
			{Type: ItemSeparator},
			{Label: "Quit", Type: ItemNormal, Accelerator: quitAccelerator, Command: command.Quit},
		},
	}

	if a.goos == "darwin" {
		return []MenuItem{
			{Label: a.cfg.App.Name, Type: ItemNormal, Submenu: []MenuItem{about}},
			file,
		}
	}
	return []MenuItem{
		file,
		{Label: "Help", Type: ItemNormal, Submenu: []MenuItem{about}},
	}
}

// TrayMenu returns the tray icon's context menu.
func (a *App) TrayMenu() []MenuItem {
	return []MenuItem{
		{Label: "Open " + a.cfg.App.Name, Type: ItemNormal, Command: command.OpenMain},
		{Label: "About " + a.cfg.App.Name + "...", Type: ItemNormal, Command: command.About},
		{Label: "Quit", Type: ItemNormal, Accelerator: quitAccelerator, Command: command.Quit},
	}
}
