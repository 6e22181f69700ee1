package handlers

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"airline-reservation/internal/services"
	"airline-reservation/internal/status"
	"airline-reservation/models"

	"github.com/shopspring/decimal"
)

var errAdminRequired = fmt.Errorf("%w: admin login required", status.ErrNotAuthenticated)

type AdminCredentials struct {
	Username string
	Password string
}

type session struct {
	passengerID int
	admin       bool
}

// ConsoleHandler reads one command per line and writes human readable
// results. Errors are printed and the loop keeps going.
type ConsoleHandler struct {
	passengers *services.PassengerService
	flights    *services.FlightService
	bookings   *services.BookingService
	reports    *services.ReportService
	admin      AdminCredentials

	out     io.Writer
	session session
}

func NewConsoleHandler(
	passengers *services.PassengerService,
	flights *services.FlightService,
	bookings *services.BookingService,
	reports *services.ReportService,
	admin AdminCredentials,
	out io.Writer,
) *ConsoleHandler {
	return &ConsoleHandler{
		passengers: passengers,
		flights:    flights,
		bookings:   bookings,
		reports:    reports,
		admin:      admin,
		out:        out,
	}
}

// Run processes commands from in until it is exhausted, "quit" is read or
// ctx is cancelled.
func (h *ConsoleHandler) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	h.printf("Airline reservation console. Type 'help' for commands.\n")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		args, err := splitArgs(scanner.Text())
		if err != nil {
			h.printError(err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		cmd := strings.ToLower(args[0])
		if cmd == "quit" || cmd == "exit" {
			h.printf("Goodbye.\n")
			return nil
		}
		if err := h.Execute(ctx, cmd, args[1:]); err != nil {
			h.printError(err)
		}
	}
	return scanner.Err()
}

// Execute runs a single command.
func (h *ConsoleHandler) Execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		h.help()
		return nil
	case "register":
		return h.register(ctx, args)
	case "login":
		return h.login(ctx, args)
	case "admin":
		return h.adminLogin(args)
	case "logout":
		h.session = session{}
		h.printf("Logged out.\n")
		return nil
	case "flights":
		return h.listFlights(ctx, false)
	case "book":
		return h.book(ctx, args)
	case "cancel":
		return h.cancel(ctx, args)
	case "bookings":
		return h.myBookings(ctx)
	case "report":
		return h.report(ctx)
	case "profile":
		return h.profile(ctx, args)
	case "password":
		return h.changePassword(ctx, args)
	case "add-flight":
		return h.addFlight(ctx, args)
	case "update-flight":
		return h.updateFlight(ctx, args)
	case "delete-flight":
		return h.deleteFlight(ctx, args)
	case "all-flights":
		if !h.session.admin {
			return errAdminRequired
		}
		return h.listFlights(ctx, true)
	case "all-bookings":
		return h.allBookings(ctx)
	case "sweep":
		return h.sweep(ctx)
	}
	return fmt.Errorf("%w: unknown command %q, try 'help'", status.ErrInvalidInput, cmd)
}

func (h *ConsoleHandler) help() {
	h.printf(`Passenger commands:
  register <name> <password> <email> [phone]
  login <passenger_id> <password>
  flights
  book <flight_no> <seats> <economy|business|first> <DD/MM/YYYY>
  cancel <booking_id>
  bookings
  report
  profile [name=..] [email=..] [phone=..]
  password <current> <new> <confirm>
Admin commands:
  admin <username> <password>
  add-flight no=<n> from=<city> to=<city> dep=<DD/MM/YYYY> deptime=<HH:MM> arr=<DD/MM/YYYY> arrtime=<HH:MM> fare=<amount> seats=<n> [key=value...]
  update-flight <flight_no> key=value...
  delete-flight <flight_no>
  all-flights
  all-bookings
  sweep
Flight keys: basis distance economy business first economy-fare business-fare first-fare
Other: logout, help, quit
`)
}

func (h *ConsoleHandler) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("register <name> <password> <email> [phone]")
	}
	in := services.RegisterInput{Name: args[0], Password: args[1], Email: args[2]}
	if len(args) > 3 {
		in.Phone = args[3]
	}

	p, err := h.passengers.Register(ctx, in)
	if err != nil {
		return err
	}
	h.printf("Registered. Your passenger id is %d.\n", p.ID)
	return nil
}

func (h *ConsoleHandler) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login <passenger_id> <password>")
	}
	id, err := parseInt("passenger id", args[0])
	if err != nil {
		return err
	}

	p, err := h.passengers.Authenticate(ctx, id, args[1])
	if err != nil {
		return err
	}
	h.session = session{passengerID: p.ID}
	h.printf("Welcome, %s.\n", p.Name)
	return nil
}

func (h *ConsoleHandler) adminLogin(args []string) error {
	if len(args) != 2 {
		return usage("admin <username> <password>")
	}
	if args[0] != h.admin.Username || args[1] != h.admin.Password {
		slog.Warn("admin login rejected", "username", args[0])
		return status.ErrInvalidCredentials
	}
	h.session = session{admin: true}
	h.printf("Admin mode.\n")
	return nil
}

func (h *ConsoleHandler) requirePassenger() (int, error) {
	if h.session.passengerID == 0 {
		return 0, status.ErrNotAuthenticated
	}
	return h.session.passengerID, nil
}

func (h *ConsoleHandler) listFlights(ctx context.Context, all bool) error {
	var (
		flights []models.Flight
		err     error
	)
	if all {
		flights, err = h.flights.List(ctx)
	} else {
		flights, err = h.flights.ListAvailable(ctx)
	}
	if err != nil {
		return err
	}
	if len(flights) == 0 {
		h.printf("No flights.\n")
		return nil
	}

	// FARE is one Economy seat under the flight's own pricing basis.
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tROUTE\tDEPARTS\tARRIVES\tBASIS\tFARE\tSEATS\tSTATUS")
	for _, f := range flights {
		basis, fare := h.bookings.Quote(f, models.Economy)
		fmt.Fprintf(w, "%d\t%s -> %s\t%s %s\t%s %s\t%s\t%s\t%d/%d\t%s\n",
			f.Number, f.Origin, f.Destination,
			f.DepartureDate, f.DepartureTime, f.ArrivalDate, f.ArrivalTime,
			basis, fare.StringFixed(2), f.AvailableSeats, f.TotalSeats, f.Status)
	}
	return w.Flush()
}

func (h *ConsoleHandler) book(ctx context.Context, args []string) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}
	if len(args) != 4 {
		return usage("book <flight_no> <seats> <economy|business|first> <DD/MM/YYYY>")
	}
	flightNo, err := parseInt("flight number", args[0])
	if err != nil {
		return err
	}
	seats, err := parseInt("seat count", args[1])
	if err != nil {
		return err
	}
	date, err := models.ParseDate(args[3])
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrInvalidDate, err)
	}

	b, err := h.bookings.CreateBooking(ctx, services.BookingRequest{
		PassengerID: pid,
		FlightNo:    flightNo,
		Seats:       seats,
		Class:       models.ParseCabinClass(args[2]),
		TravelDate:  date,
	})
	if err != nil {
		return err
	}
	h.printf("Booking %d confirmed: %d %s seat(s) on flight %d for %s. Fare %s.\n",
		b.ID, b.Seats, b.Class, b.FlightNo, b.TravelDate, b.FarePaid.StringFixed(2))
	return nil
}

func (h *ConsoleHandler) cancel(ctx context.Context, args []string) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("cancel <booking_id>")
	}
	id, err := parseInt("booking id", args[0])
	if err != nil {
		return err
	}

	refund, err := h.bookings.CancelBooking(ctx, id, pid)
	if err != nil {
		return err
	}
	h.printf("Booking %d cancelled. Refund %s.\n", id, refund.StringFixed(2))
	return nil
}

func (h *ConsoleHandler) myBookings(ctx context.Context) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}
	bookings, err := h.bookings.FindByPassenger(ctx, pid)
	if err != nil {
		return err
	}
	return h.printBookings(bookings, false)
}

func (h *ConsoleHandler) allBookings(ctx context.Context) error {
	if !h.session.admin {
		return errAdminRequired
	}
	bookings, err := h.bookings.ListAll(ctx)
	if err != nil {
		return err
	}
	return h.printBookings(bookings, true)
}

func (h *ConsoleHandler) printBookings(bookings []models.Booking, withPassenger bool) error {
	if len(bookings) == 0 {
		h.printf("No bookings.\n")
		return nil
	}

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	header := "ID\tFLIGHT\tTRAVEL\tSEATS\tCLASS\tFARE\tREFUND\tSTATUS"
	if withPassenger {
		header = "ID\tPASSENGER\tFLIGHT\tTRAVEL\tSEATS\tCLASS\tFARE\tREFUND\tSTATUS"
	}
	fmt.Fprintln(w, header)
	for _, b := range bookings {
		fmt.Fprintf(w, "%d\t", b.ID)
		if withPassenger {
			fmt.Fprintf(w, "%d\t", b.PassengerID)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			b.FlightNo, b.TravelDate, b.Seats, b.Class,
			b.FarePaid.StringFixed(2), b.Refund.StringFixed(2), b.Status)
	}
	return w.Flush()
}

func (h *ConsoleHandler) report(ctx context.Context) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}
	r, err := h.reports.Generate(ctx, pid)
	if err != nil {
		return err
	}

	h.printf("Report for %s (%d), generated %s\n", r.Passenger.Name, r.Passenger.ID, r.GeneratedAt.Format("02/01/2006 15:04"))
	h.printf("Bookings: %d total, %d confirmed, %d cancelled, %d completed\n",
		r.Total, r.Confirmed, r.Cancelled, r.Completed)
	h.printf("Fares paid: %s  Account total: %s\n",
		r.FarePaid.StringFixed(2), r.Passenger.TotalSpent.StringFixed(2))
	if len(r.Recent) > 0 {
		h.printf("Recent:\n")
		for _, rb := range r.Recent {
			h.printf("  %d  %s  %s  %s\n", rb.Booking.ID, rb.Route, rb.Booking.TravelDate, rb.Booking.Status)
		}
	}
	return nil
}

func (h *ConsoleHandler) profile(ctx context.Context, args []string) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		p, err := h.passengers.Get(ctx, pid)
		if err != nil {
			return err
		}
		h.printf("%d  %s  %s  %s  bookings=%d  spent=%s\n",
			p.ID, p.Name, p.Email, p.Phone, p.TotalBookings, p.TotalSpent.StringFixed(2))
		return nil
	}

	var upd services.ProfileUpdate
	for _, pair := range args {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", status.ErrInvalidInput, pair)
		}
		switch strings.ToLower(key) {
		case "name":
			upd.Name = &value
		case "email":
			upd.Email = &value
		case "phone":
			upd.Phone = &value
		default:
			return fmt.Errorf("%w: unknown profile field %q", status.ErrInvalidInput, key)
		}
	}

	if _, err := h.passengers.UpdateProfile(ctx, pid, upd); err != nil {
		return err
	}
	h.printf("Profile updated.\n")
	return nil
}

func (h *ConsoleHandler) changePassword(ctx context.Context, args []string) error {
	pid, err := h.requirePassenger()
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return usage("password <current> <new> <confirm>")
	}
	if err := h.passengers.ChangePassword(ctx, pid, args[0], args[1], args[2]); err != nil {
		return err
	}
	h.printf("Password changed.\n")
	return nil
}

func (h *ConsoleHandler) addFlight(ctx context.Context, args []string) error {
	if !h.session.admin {
		return errAdminRequired
	}

	var (
		number int
		rest   []string
	)
	for _, pair := range args {
		if v, ok := strings.CutPrefix(pair, "no="); ok {
			n, err := parseInt("flight number", v)
			if err != nil {
				return err
			}
			number = n
			continue
		}
		rest = append(rest, pair)
	}

	upd, err := parseFlightFields(models.Flight{}, rest)
	if err != nil {
		return err
	}

	f, err := h.flights.Add(ctx, services.FlightInput{
		Number:        number,
		Origin:        deref(upd.Origin),
		Destination:   deref(upd.Destination),
		DepartureDate: deref(upd.DepartureDate),
		DepartureTime: deref(upd.DepartureTime),
		ArrivalDate:   deref(upd.ArrivalDate),
		ArrivalTime:   deref(upd.ArrivalTime),
		FareBasis:     deref(upd.FareBasis),
		BaseFare:      deref(upd.BaseFare),
		ClassFares:    deref(upd.ClassFares),
		Distance:      deref(upd.Distance),
		ClassSeats:    deref(upd.ClassSeats),
		TotalSeats:    deref(upd.TotalSeats),
	})
	if err != nil {
		return err
	}
	h.printf("Flight %d added with %d seats.\n", f.Number, f.TotalSeats)
	return nil
}

func (h *ConsoleHandler) updateFlight(ctx context.Context, args []string) error {
	if !h.session.admin {
		return errAdminRequired
	}
	if len(args) < 2 {
		return usage("update-flight <flight_no> key=value...")
	}
	number, err := parseInt("flight number", args[0])
	if err != nil {
		return err
	}
	current, err := h.flights.Get(ctx, number)
	if err != nil {
		return err
	}
	upd, err := parseFlightFields(current, args[1:])
	if err != nil {
		return err
	}

	f, err := h.flights.Update(ctx, number, upd)
	if err != nil {
		return err
	}
	h.printf("Flight %d updated: %d/%d seats available.\n", f.Number, f.AvailableSeats, f.TotalSeats)
	return nil
}

func (h *ConsoleHandler) deleteFlight(ctx context.Context, args []string) error {
	if !h.session.admin {
		return errAdminRequired
	}
	if len(args) != 1 {
		return usage("delete-flight <flight_no>")
	}
	number, err := parseInt("flight number", args[0])
	if err != nil {
		return err
	}
	if err := h.flights.Delete(ctx, number); err != nil {
		return err
	}
	h.printf("Flight %d deleted.\n", number)
	return nil
}

func (h *ConsoleHandler) sweep(ctx context.Context) error {
	if !h.session.admin {
		return errAdminRequired
	}
	n, err := h.bookings.CompleteDue(ctx)
	if err != nil {
		return err
	}
	h.printf("%d booking(s) completed.\n", n)
	return nil
}

// parseFlightFields reads key=value pairs into an update of current. Class
// keys are merged into current's pools and fares. A flight without class
// pools counts all its seats as Economy.
func parseFlightFields(current models.Flight, pairs []string) (services.FlightUpdate, error) {
	var (
		upd      services.FlightUpdate
		seatsSet bool
		faresSet bool
	)
	classSeats, classFares := current.ClassCapacity, current.ClassFares
	if !current.TracksClassPools() {
		classSeats = models.SeatCounts{Economy: current.TotalSeats}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return upd, fmt.Errorf("%w: expected key=value, got %q", status.ErrInvalidInput, pair)
		}

		switch key = strings.ToLower(key); key {
		case "from":
			upd.Origin = &value
		case "to":
			upd.Destination = &value
		case "dep", "arr":
			d, err := models.ParseDate(value)
			if err != nil {
				return upd, fmt.Errorf("%w: %v", status.ErrInvalidDate, err)
			}
			if key == "dep" {
				upd.DepartureDate = &d
			} else {
				upd.ArrivalDate = &d
			}
		case "deptime", "arrtime":
			t, err := models.ParseTimeOfDay(value)
			if err != nil {
				return upd, fmt.Errorf("%w: %v", status.ErrInvalidTime, err)
			}
			if key == "deptime" {
				upd.DepartureTime = &t
			} else {
				upd.ArrivalTime = &t
			}
		case "basis":
			b, err := models.ParseFareBasis(value)
			if err != nil {
				return upd, fmt.Errorf("%w: %v", status.ErrInvalidFlight, err)
			}
			upd.FareBasis = &b
		case "fare", "distance":
			amount, err := parseAmount(key, value)
			if err != nil {
				return upd, err
			}
			if key == "fare" {
				upd.BaseFare = &amount
			} else {
				upd.Distance = &amount
			}
		case "seats":
			n, err := parseInt("seats", value)
			if err != nil {
				return upd, err
			}
			upd.TotalSeats = &n
		case "economy", "business", "first":
			n, err := parseInt(key+" seats", value)
			if err != nil {
				return upd, err
			}
			c := models.ParseCabinClass(key)
			classSeats = classSeats.Add(c, n-classSeats.Of(c))
			seatsSet = true
		case "economy-fare", "business-fare", "first-fare":
			amount, err := parseAmount(key, value)
			if err != nil {
				return upd, err
			}
			switch models.ParseCabinClass(strings.TrimSuffix(key, "-fare")) {
			case models.Business:
				classFares.Business = amount
			case models.First:
				classFares.First = amount
			default:
				classFares.Economy = amount
			}
			faresSet = true
		default:
			return upd, fmt.Errorf("%w: unknown flight field %q", status.ErrInvalidInput, key)
		}
	}

	if seatsSet {
		upd.ClassSeats = &classSeats
	}
	if faresSet {
		upd.ClassFares = &classFares
	}
	return upd, nil
}

// splitArgs splits a command line on spaces. Double quotes group words.
func splitArgs(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	fields, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", status.ErrInvalidInput, err)
	}

	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", status.ErrInvalidInput, what, s)
	}
	return n, nil
}

func parseAmount(what, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be an amount, got %q", status.ErrInvalidInput, what, s)
	}
	return d, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func usage(line string) error {
	return fmt.Errorf("%w: usage: %s", status.ErrInvalidInput, line)
}

func (h *ConsoleHandler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}

func (h *ConsoleHandler) printError(err error) {
	h.printf("error: %v\n", err)
}
