package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/logging"
	listview "github.com/rshade/nutriboard/internal/tui/list"
)

// CleanupStage is the step of the cleanup dialog.
type CleanupStage int

const (
	// CleanupLoading waits for the resource inventory.
	CleanupLoading CleanupStage = iota
	// CleanupSelecting lets the user tick resources.
	CleanupSelecting
	// CleanupConfirming asks y/N before deleting.
	CleanupConfirming
	// CleanupDeleting waits for the deletion report.
	CleanupDeleting
	// CleanupDone shows the deletion report.
	CleanupDone
	// CleanupFailed shows a load or delete error.
	CleanupFailed
)

// CleanupActions are the backend calls the dialog makes.
type CleanupActions struct {
	List   func(ctx context.Context) (*api.ResourceList, error)
	Delete func(ctx context.Context, ids []string) (*api.DeleteResult, error)
}

type resourcesLoadedMsg struct {
	list *api.ResourceList
	err  error
}

type resourcesDeletedMsg struct {
	result *api.DeleteResult
	err    error
}

const cleanupListHeight = 15

// CleanupModel is the resource cleanup dialog.
type CleanupModel struct {
	ctx     context.Context
	actions CleanupActions

	stage     CleanupStage
	inventory *api.ResourceList
	list      *listview.CheckList[api.Resource]
	result    *api.DeleteResult
	err       error
	notice    string

	loading *LoadingState
	width   int
	height  int
}

// NewCleanupModel creates the dialog. Init loads the inventory.
func NewCleanupModel(ctx context.Context, actions CleanupActions) *CleanupModel {
	if ctx == nil {
		ctx = context.Background()
	}
	loading := NewLoadingState()
	loading.SetMessage("Loading resources...")
	return &CleanupModel{
		ctx:     ctx,
		actions: actions,
		stage:   CleanupLoading,
		loading: loading,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Init starts the spinner and loads the inventory.
func (m *CleanupModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.loadResources())
}

// Stage returns the current dialog step.
func (m *CleanupModel) Stage() CleanupStage {
	return m.stage
}

// Result returns the deletion report once the dialog is done.
func (m *CleanupModel) Result() *api.DeleteResult {
	return m.result
}

// Err returns the error shown in the failed stage.
func (m *CleanupModel) Err() error {
	return m.err
}

func (m *CleanupModel) loadResources() tea.Cmd {
	ctx, list := m.ctx, m.actions.List
	return func() tea.Msg {
		inv, err := list(ctx)
		return resourcesLoadedMsg{list: inv, err: err}
	}
}

func (m *CleanupModel) deleteSelected() tea.Cmd {
	ids := m.selectedIDs()
	ctx, del := m.ctx, m.actions.Delete
	log := logging.FromContext(m.ctx)
	log.Info().Str("component", "cleanup").Int("count", len(ids)).Msg("deleting resources")
	return func() tea.Msg {
		res, err := del(ctx, ids)
		return resourcesDeletedMsg{result: res, err: err}
	}
}

func (m *CleanupModel) selectedIDs() []string {
	items := m.list.CheckedItems()
	ids := make([]string, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.ID)
	}
	return ids
}

// Update handles backend results and keys.
func (m *CleanupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resourcesLoadedMsg:
		if msg.err != nil {
			m.stage = CleanupFailed
			m.err = msg.err
			return m, nil
		}
		m.inventory = msg.list
		m.list = listview.NewCheckList(msg.list.Resources, cleanupListHeight, m.width, renderResource)
		m.stage = CleanupSelecting
		return m, nil
	case resourcesDeletedMsg:
		if msg.err != nil {
			m.stage = CleanupFailed
			m.err = msg.err
			return m, nil
		}
		m.result = msg.result
		m.stage = CleanupDone
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.stage == CleanupLoading || m.stage == CleanupDeleting {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m *CleanupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyCtrlC {
		return m, tea.Quit
	}

	switch m.stage {
	case CleanupSelecting:
		return m.handleSelectKey(msg)
	case CleanupConfirming:
		switch key {
		case keyYes, "Y":
			m.stage = CleanupDeleting
			m.loading.SetMessage("Deleting resources...")
			return m, tea.Batch(m.loading.Init(), m.deleteSelected())
		default:
			m.stage = CleanupSelecting
			m.notice = "Deletion cancelled."
		}
	case CleanupDone, CleanupFailed:
		if key == keyQuit || key == keyEnter || key == keyEsc {
			return m, tea.Quit
		}
	case CleanupLoading, CleanupDeleting:
	}
	return m, nil
}

func (m *CleanupModel) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyEsc:
		return m, tea.Quit
	case keyEnter:
		if m.list.CheckedCount() == 0 {
			m.notice = "Please select at least one resource to delete."
			return m, nil
		}
		m.notice = ""
		m.stage = CleanupConfirming
		return m, nil
	}
	m.notice = ""
	m.list.Update(msg)
	return m, nil
}

func renderResource(r api.Resource, cursor, checked bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	pointer := "  "
	if cursor {
		pointer = "> "
	}
	line := fmt.Sprintf("%s%s %-32s %-24s %s", pointer, box, r.Name, r.ShortType(), r.Location)
	if cursor {
		return TableSelectedStyle.Render(line)
	}
	return line
}

// View renders the current dialog step.
func (m *CleanupModel) View() string {
	sections := []string{HeaderStyle.Render("RESOURCE CLEANUP")}

	switch m.stage {
	case CleanupLoading, CleanupDeleting:
		sections = append(sections, RenderLoading(m.loading))
	case CleanupFailed:
		sections = append(sections, RenderError(m.err), SubtleStyle.Render("Press q to exit."))
	case CleanupSelecting:
		sections = append(sections, m.renderInventory()...)
		sections = append(sections,
			SubtleStyle.Render(strings.Join([]string{
				"↑/↓: navigate", "space: toggle", "a: all", "enter: delete selected", "q: quit",
			}, " | ")))
	case CleanupConfirming:
		sections = append(sections, WarningStyle.Render(fmt.Sprintf(
			"Delete %d resource(s)? This cannot be undone. [y/N]", m.list.CheckedCount())))
		for _, r := range m.list.CheckedItems() {
			sections = append(sections, "  "+r.Name+SubtleStyle.Render(" ("+r.ShortType()+")"))
		}
	case CleanupDone:
		sections = append(sections, RenderDeleteResult(m.result), SubtleStyle.Render("Press q to exit."))
	}

	if m.notice != "" {
		sections = append(sections, WarningStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *CleanupModel) renderInventory() []string {
	if m.inventory == nil || len(m.inventory.Resources) == 0 {
		return []string{InfoStyle.Render("No resources found in the resource group.")}
	}
	summary := LabelStyle.Render("Resource Group: ") + ValueStyle.Render(m.inventory.ResourceGroup) +
		LabelStyle.Render("    Selected: ") +
		ValueStyle.Render(fmt.Sprintf("%d of %d", m.list.CheckedCount(), m.list.ItemCount()))
	return []string{summary, "", m.list.View(), ""}
}

// RenderDeleteResult renders a deletion report, listing failed resources.
func RenderDeleteResult(res *api.DeleteResult) string {
	if res == nil {
		return ""
	}
	var b strings.Builder
	if res.Partial() {
		b.WriteString(WarningStyle.Render("Cleanup partially completed"))
	} else {
		b.WriteString(OKStyle.Render("Cleanup completed"))
	}
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Deleted: "))
	b.WriteString(ValueStyle.Render(FormatCount(res.DeletedCount)))
	b.WriteString(LabelStyle.Render("    Failed: "))
	b.WriteString(ValueStyle.Render(FormatCount(res.FailedCount)))
	if res.Message != "" {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(res.Message))
	}
	for _, f := range res.FailedResources {
		b.WriteString("\n")
		b.WriteString(CriticalStyle.Render(crossMark + " " + f.ShortID()))
		b.WriteString(" " + SubtleStyle.Render(f.Error))
	}
	return BoxStyle.Render(b.String())
}

// RenderResourceList renders the resource inventory as a static table.
func RenderResourceList(list *api.ResourceList) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("RESOURCES"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Resource Group: "))
	b.WriteString(ValueStyle.Render(list.ResourceGroup))
	b.WriteString(LabelStyle.Render("    Count: "))
	b.WriteString(ValueStyle.Render(FormatCount(len(list.Resources))))
	b.WriteString("\n\n")

	if len(list.Resources) == 0 {
		b.WriteString(InfoStyle.Render("No resources found in the resource group."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(list.Resources))
	for _, r := range list.Resources {
		rows = append(rows, []string{r.Name, r.ShortType(), r.Location, r.ID})
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers("Name", "Type", "Location", "ID").
		Rows(rows...)
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
