package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"railbook-cli/model"
	"railbook-cli/seating"
	"railbook-cli/service"
)

type appState int

const (
	stateMenu appState = iota
	stateSearch
	stateSelectTrain
	stateLoadingSeatMap
	stateShowSeatMap
	stateConfirmation
	stateLogin
	stateLoggingIn
	stateTickets
	stateDashboard
	stateSettings
	stateError
)

type appModel struct {
	app   *service.App
	clock service.Clock

	state     appState
	lastState appState
	err       error
	notice    string

	width  int
	height int

	theme theme

	menuList     list.Model
	trainList    list.Model
	ticketList   list.Model
	settingsList list.Model

	searchForm form
	loginForm  form
	loginNext  appState
	loginBack  appState

	user *model.User

	search       model.SearchData
	train        model.Train
	seatMap      model.SeatMap
	selection    *seating.Selection
	grid         seatGrid
	cursor       int
	announcement string

	booking      model.Booking
	ticketFilter service.TicketFilter
	dashboard    service.Dashboard
	printDir     string

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type seatMapMsg struct {
	seatMap model.SeatMap
	err     error
}

type loginMsg struct {
	user    model.User
	claimed bool
	err     error
}

type dashboardMsg struct {
	dashboard service.Dashboard
	err       error
}

// needLoginMsg asks for the login form, continuing to then afterwards.
type needLoginMsg struct {
	then appState
}

type menuAction int

const (
	actionSearch menuAction = iota
	actionTickets
	actionDashboard
	actionSettings
	actionLogin
	actionLogout
	actionQuit
)

type menuItem struct {
	action menuAction
	title  string
	desc   string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type trainItem struct {
	train model.Train
	fare  string
}

func (t trainItem) Title() string {
	return fmt.Sprintf("%s (%s)", t.train.Name, t.train.Number)
}

func (t trainItem) Description() string {
	return fmt.Sprintf("%s → %s • Coach %s • %s • %s", t.train.Departure, t.train.Arrival, t.train.Coach, t.train.Class, t.fare)
}

func (t trainItem) FilterValue() string {
	return t.train.Name + " " + t.train.Number
}

func New(app *service.App) tea.Model {
	m := appModel{
		app:          app,
		clock:        service.SystemClock(),
		state:        stateMenu,
		ticketFilter: service.FilterAll,
		theme:        newTheme(app.Accessibility.Current()),
	}

	m.menuList = newList("RailBook")
	m.menuList.SetFilteringEnabled(false)
	m.trainList = newList("Select Train")
	m.ticketList = newList("My Tickets")
	m.ticketList.SetFilteringEnabled(false)
	m.settingsList = newList("Accessibility")
	m.settingsList.SetFilteringEnabled(false)
	m.settingsList.SetItems(buildSettingItems(m.theme.settings))

	m.searchForm = newForm(
		formField{key: "origin", label: "From", placeholder: "e.g. New Delhi"},
		formField{key: "destination", label: "To", placeholder: "e.g. Mumbai Central"},
		formField{key: "date", label: "Travel date", placeholder: "YYYY-MM-DD"},
		formField{key: "passengers", label: fmt.Sprintf("Passengers (1-%d)", app.Search.MaxPassengers())},
	)
	m.searchForm.setValue("passengers", strconv.Itoa(app.Search.PassengerLimit(model.SearchData{})))
	if saved, ok, err := app.Search.Current(); err == nil && ok {
		m.search = saved
		m.searchForm.setValue("origin", saved.Origin)
		m.searchForm.setValue("destination", saved.Destination)
		m.searchForm.setValue("date", saved.Date)
		m.searchForm.setValue("passengers", saved.Passengers)
	}
	m.loginForm = newForm(
		formField{key: "email", label: "Email", placeholder: "you@example.com"},
		formField{key: "password", label: "Password", secret: true},
	)

	if user, err := app.Auth.CurrentUser(); err == nil {
		m.user = &user
	}
	m.menuList.SetItems(buildMenuItems(m.user != nil))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
		// unhandled keys go to the active component

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case needLoginMsg:
		return m.openLogin(msg.then, stateMenu)

	case seatMapMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTrain)
		}
		return m.openSeatMap(msg.seatMap)

	case loginMsg:
		return m.finishLogin(msg)

	case dashboardMsg:
		if msg.err != nil {
			return m, m.authErrCmd(msg.err, stateDashboard)
		}
		m.dashboard = msg.dashboard
		m.state = stateDashboard
		return m, nil

	case ticketsMsg, cancelledMsg, printedMsg:
		return m.handleTicketMsg(msg)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	case stateSearch:
		m.searchForm, cmd = m.searchForm.update(msg)
	case stateLogin:
		m.loginForm, cmd = m.loginForm.update(msg)
	case stateSelectTrain:
		m.trainList, cmd = m.trainList.Update(msg)
	case stateTickets:
		m.ticketList, cmd = m.ticketList.Update(msg)
	case stateSettings:
		m.settingsList, cmd = m.settingsList.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.state {
	case stateLoadingSeatMap, stateLoggingIn:
		body = m.loadingView()
	case stateMenu:
		body = m.menuList.View()
	case stateSearch:
		body = m.theme.heading("Search trains") + "\n\n" + m.searchForm.view(m.theme)
	case stateSelectTrain:
		body = m.trainList.View()
	case stateShowSeatMap:
		body = m.renderSeatMap()
	case stateConfirmation:
		body = m.confirmationView()
	case stateLogin:
		body = m.theme.heading("Log in") + "\n\n" + m.loginForm.view(m.theme) + m.theme.hint("Demo account: "+service.DemoEmail+" / "+service.DemoPassword+" • new here? run railbook signup")
	case stateTickets:
		body = m.ticketList.View()
	case stateDashboard:
		body = m.renderDashboard()
	case stateSettings:
		body = m.settingsList.View()
	case stateError:
		body = m.theme.errText.Render(m.err.Error()) + "\n\n" + m.theme.hint("Press esc to go back or ctrl+c to quit.")
	}
	if m.notice != "" && m.state != stateError {
		body += "\n\n" + m.theme.notice.Render(m.notice)
	}
	return header + "\n\n" + body
}

func (m appModel) headerView() string {
	title := m.theme.heading("RailBook")
	sub := []string{}
	if m.user != nil {
		sub = append(sub, "Signed in: "+m.user.Name)
	} else {
		sub = append(sub, "Not logged in")
	}
	if m.search.Origin != "" && (m.state == stateSelectTrain || m.state == stateShowSeatMap || m.state == stateLoadingSeatMap) {
		sub = append(sub, fmt.Sprintf("%s → %s • %s • %s passenger(s)", m.search.Origin, m.search.Destination, m.search.Date, m.search.Passengers))
	}
	if m.state == stateTickets {
		sub = append(sub, "Filter: "+string(m.ticketFilter))
	}
	meta := "\n" + m.theme.hint(strings.Join(sub, " • "))

	hints := "ctrl+c quit • esc back • enter select"
	switch m.state {
	case stateMenu:
		hints = "q quit • enter select"
	case stateSearch, stateLogin:
		hints = "ctrl+c quit • esc back • tab next field • enter submit"
	case stateSelectTrain:
		hints = "ctrl+c quit • esc back • type to filter • enter pick seats"
	case stateShowSeatMap:
		hints = "ctrl+c quit • esc back • arrows move • enter/space toggle seat • x clear • c confirm"
	case stateConfirmation:
		hints = "ctrl+c quit • enter menu • p save e-ticket"
	case stateTickets:
		hints = "ctrl+c quit • esc back • tab filter • x cancel • p save e-ticket"
	case stateSettings:
		hints = "ctrl+c quit • esc back • enter change • +/- font size • r reset"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + m.theme.hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + m.theme.hint(hints)
}

func (m appModel) confirmationView() string {
	b := m.booking
	lines := []string{
		m.theme.heading("Booking confirmed!"),
		"",
		"Booking reference: " + b.BookingRef,
		fmt.Sprintf("Train: %s (%s)", b.Train, b.TrainNo),
		fmt.Sprintf("Route: %s → %s", b.Origin, b.Destination),
		fmt.Sprintf("Date: %s • departs %s • arrives %s", b.Date, b.Departure, b.Arrival),
		fmt.Sprintf("Coach: %s %s", b.Coach, b.Class),
		"Seats: " + b.Seats,
		fmt.Sprintf("Passengers: %d", b.Passengers),
		"Total fare: " + m.app.Trains.FormatFare(b.Fare),
	}
	panel := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.theme.accent).
		Render(strings.Join(lines, "\n"))
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "q":
		if !m.typing() {
			return m, tea.Quit, true
		}
	case "esc":
		if listPtr := m.activeList(); listPtr != nil && listPtr.FilterValue() != "" {
			listPtr.ResetFilter()
			return m, nil, true
		}
		next, cmd := m.goBack()
		return next, cmd, true
	}

	switch m.state {
	case stateMenu:
		if msg.String() == "enter" {
			return m.openMenuItem()
		}
	case stateSearch, stateLogin:
		return m.handleFormKey(msg)
	case stateSelectTrain:
		if msg.String() == "enter" {
			item, ok := m.trainList.SelectedItem().(trainItem)
			if !ok {
				return m, nil, true
			}
			m.train = item.train
			m.state = stateLoadingSeatMap
			return m, tea.Batch(m.loadSeatMapCmd(), m.spinner.Tick), true
		}
	case stateShowSeatMap:
		return m.handleSeatMapKey(msg)
	case stateConfirmation:
		switch msg.String() {
		case "enter":
			next, cmd := m.goBack()
			return next, cmd, true
		case "p":
			return m, m.printTicketCmd(m.booking), true
		}
	case stateTickets:
		return m.handleTicketsKey(msg)
	case stateSettings:
		return m.handleSettingsKey(msg)
	case stateError:
		if msg.String() == "enter" {
			next, cmd := m.goBack()
			return next, cmd, true
		}
	}
	return m, nil, false
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	f, submit := &m.searchForm, appModel.submitSearch
	if m.state == stateLogin {
		f, submit = &m.loginForm, appModel.submitLogin
	}
	switch msg.String() {
	case "tab", "down":
		return m, f.next(), true
	case "shift+tab", "up":
		return m, f.prev(), true
	case "enter":
		if !f.onLast() {
			return m, f.next(), true
		}
		next, cmd := submit(m)
		return next, cmd, true
	}
	return m, nil, false
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	m.notice = ""
	switch m.state {
	case stateSearch, stateTickets, stateDashboard, stateSettings:
		m.state = stateMenu
	case stateSelectTrain:
		m.state = stateSearch
	case stateShowSeatMap:
		m.selection = nil
		m.announcement = ""
		m.state = stateSelectTrain
	case stateConfirmation:
		m.selection = nil
		m.state = stateMenu
	case stateLogin:
		m.loginForm.clearErrors()
		m.state = m.loginBack
	case stateError:
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m appModel) openMenuItem() (appModel, tea.Cmd, bool) {
	item, ok := m.menuList.SelectedItem().(menuItem)
	if !ok {
		return m, nil, true
	}
	m.notice = ""
	switch item.action {
	case actionSearch:
		m.state = stateSearch
		return m, m.searchForm.focusField(0), true
	case actionTickets:
		if m.user == nil {
			next, cmd := m.openLogin(stateTickets, stateMenu)
			return next, cmd, true
		}
		return m, m.loadTicketsCmd(), true
	case actionDashboard:
		if m.user == nil {
			next, cmd := m.openLogin(stateDashboard, stateMenu)
			return next, cmd, true
		}
		return m, m.loadDashboardCmd(), true
	case actionSettings:
		m.state = stateSettings
	case actionLogin:
		next, cmd := m.openLogin(stateMenu, stateMenu)
		return next, cmd, true
	case actionLogout:
		if err := m.app.Auth.Logout(); err != nil {
			return m, errCmd(err), true
		}
		m.user = nil
		m.menuList.SetItems(buildMenuItems(false))
		m.notice = "Logged out."
	case actionQuit:
		return m, tea.Quit, true
	}
	return m, nil, true
}

func (m appModel) submitSearch() (appModel, tea.Cmd) {
	search, err := m.app.Search.Submit(model.SearchData{
		Origin:      m.searchForm.value("origin"),
		Destination: m.searchForm.value("destination"),
		Date:        m.searchForm.value("date"),
		Passengers:  m.searchForm.value("passengers"),
	})
	if fields, ok := service.AsFieldErrors(err); ok {
		return m, m.searchForm.setErrors(fields)
	}
	if err != nil {
		return m, errCmd(err)
	}
	m.searchForm.clearErrors()
	m.search = search
	m.trainList.ResetFilter()
	m.trainList.SetItems(m.buildTrainItems())
	m.state = stateSelectTrain
	return m, nil
}

func (m appModel) buildTrainItems() []list.Item {
	fare := m.app.Trains.FormatFare(m.app.Trains.Fare(m.app.Search.PassengerLimit(m.search)))
	var items []list.Item
	for _, train := range m.app.Trains.List() {
		items = append(items, trainItem{train: train, fare: fare})
	}
	return items
}

func (m appModel) loadSeatMapCmd() tea.Cmd {
	seatMaps := m.app.SeatMaps
	trainNo, date := m.train.Number, m.search.Date
	return func() tea.Msg {
		seatMap, err := seatMaps.SeatMap(trainNo, date)
		return seatMapMsg{seatMap: seatMap, err: err}
	}
}

func (m appModel) openSeatMap(seatMap model.SeatMap) (appModel, tea.Cmd) {
	sel, err := seating.New(seatMap.Seats, m.app.Search.PassengerLimit(m.search))
	if err != nil {
		return m, errWithOptionsCmd(err, stateSelectTrain)
	}
	m.seatMap = seatMap
	m.selection = sel
	m.grid = buildSeatGrid(seatMap.Seats, m.app.SeatMaps.PerRow())
	m.cursor = 0
	for i, seat := range seatMap.Seats {
		if seat.Usable() {
			m.cursor = i
			break
		}
	}
	m.announcement = ""
	m.state = stateShowSeatMap
	return m, nil
}

// confirmBooking runs in Update so the selection is only ever changed there.
func (m appModel) confirmBooking() (appModel, tea.Cmd) {
	booking, err := m.app.Checkout.Confirm(m.search, m.train, m.selection)
	if errors.Is(err, service.ErrLoginRequired) {
		next, cmd := m.openLogin(stateConfirmation, stateShowSeatMap)
		next.notice = "Log in to finish your booking. Your seats are held until then."
		return next, cmd
	}
	var empty *seating.EmptySelectionError
	if errors.As(err, &empty) {
		m.announcement = err.Error()
		return m, nil
	}
	if err != nil {
		return m, errCmd(err)
	}
	m.booking = booking
	m.state = stateConfirmation
	return m, nil
}

func (m appModel) openLogin(then appState, back appState) (appModel, tea.Cmd) {
	m.loginNext = then
	m.loginBack = back
	m.loginForm.clearErrors()
	m.state = stateLogin
	return m, m.loginForm.focusField(0)
}

func (m appModel) submitLogin() (appModel, tea.Cmd) {
	auth, checkout := m.app.Auth, m.app.Checkout
	email, password := m.loginForm.value("email"), m.loginForm.value("password")
	m.state = stateLoggingIn
	return m, tea.Batch(func() tea.Msg {
		_, hadPending, _ := checkout.Pending()
		user, err := auth.Login(email, password)
		return loginMsg{user: user, claimed: hadPending && err == nil, err: err}
	}, m.spinner.Tick)
}

func (m appModel) finishLogin(msg loginMsg) (appModel, tea.Cmd) {
	if msg.err != nil {
		m.state = stateLogin
		if fields, ok := service.AsFieldErrors(msg.err); ok {
			return m, m.loginForm.setErrors(fields)
		}
		if errors.Is(msg.err, service.ErrInvalidCredentials) {
			return m, m.loginForm.setErrors(service.FieldErrors{{Field: "password", Message: "Invalid email or password"}})
		}
		return m, errCmd(msg.err)
	}

	user := msg.user
	m.user = &user
	m.notice = ""
	m.loginForm.setValue("password", "")
	m.loginForm.clearErrors()
	m.menuList.SetItems(buildMenuItems(true))

	switch {
	case msg.claimed && len(user.Bookings) > 0:
		m.booking = user.Bookings[len(user.Bookings)-1]
		if m.selection != nil {
			m.selection.Clear()
		}
		m.state = stateConfirmation
		return m, nil
	case m.loginNext == stateTickets:
		return m, m.loadTicketsCmd()
	case m.loginNext == stateDashboard:
		return m, m.loadDashboardCmd()
	}
	m.state = stateMenu
	m.notice = "Welcome back, " + user.Name + "!"
	return m, nil
}

func (m appModel) loadDashboardCmd() tea.Cmd {
	tickets := m.app.Tickets
	return func() tea.Msg {
		dash, err := tickets.Dashboard()
		return dashboardMsg{dashboard: dash, err: err}
	}
}

func (m appModel) now() time.Time {
	return m.clock.Now()
}

// typing reports whether letter keys belong to a text field.
func (m appModel) typing() bool {
	if m.state == stateSearch || m.state == stateLogin {
		return true
	}
	listPtr := m.activeList()
	return listPtr != nil && listPtr.FilterValue() != ""
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateMenu:
		return &m.menuList
	case stateSelectTrain:
		return &m.trainList
	case stateTickets:
		return &m.ticketList
	case stateSettings:
		return &m.settingsList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingSeatMap || m.state == stateLoggingIn
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingSeatMap:
		title = "Loading seat map"
	case stateLoggingIn:
		title = "Logging in"
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), title)
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.menuList.SetSize(m.width, h)
	m.trainList.SetSize(m.width, h)
	m.ticketList.SetSize(m.width, h)
	m.settingsList.SetSize(m.width, h)
}

func buildMenuItems(loggedIn bool) []list.Item {
	items := []list.Item{
		menuItem{action: actionSearch, title: "Search trains", desc: "Find trains and pick seats on the coach map"},
		menuItem{action: actionTickets, title: "My tickets", desc: "Upcoming and past bookings, cancel or save an e-ticket"},
		menuItem{action: actionDashboard, title: "Dashboard", desc: "Trip summary"},
		menuItem{action: actionSettings, title: "Accessibility", desc: "Font size, high contrast and dyslexia friendly text"},
	}
	if loggedIn {
		items = append(items, menuItem{action: actionLogout, title: "Log out", desc: "Your current search is kept"})
	} else {
		items = append(items, menuItem{action: actionLogin, title: "Log in", desc: "Sign in to book and see your tickets"})
	}
	return append(items, menuItem{action: actionQuit, title: "Quit", desc: "Leave RailBook"})
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithOptionsCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingSeatMap:
		return stateSelectTrain
	case stateLoggingIn:
		return stateLogin
	case stateError:
		return stateMenu
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
