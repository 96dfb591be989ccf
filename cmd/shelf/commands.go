package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"book-tracker/internal/catalog"
	"book-tracker/internal/lifecycle"
	"book-tracker/internal/models"
)

var (
	viewFlag    string
	authorFlag  bool
	genreFlag   string
	formatFlag  string
	addStatus   string
	pickFlag    int
	upAuthor    string
	upSeries    string
	upDate      string
	accEmail    string
	accPassword string
	accName     string

	editTitle     string
	editAuthors   string
	editGenre     string
	editFormat    string
	editStatus    string
	editPublished string
	editPages     int
	editSmCover   string
	editLgCover   string
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Podsumowanie: statystyki, czytane teraz, ostatnio przeczytane, premiery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home := lib.Home()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Książki: %d, stron: %d\n", home.Stats.TotalBooks, home.Stats.TotalPages)
		fmt.Fprintln(out, "\nCzytane teraz:")
		printBooks(out, home.InProgress)
		fmt.Fprintln(out, "\nOstatnio przeczytane:")
		printBooks(out, home.RecentlyCompleted)
		fmt.Fprintln(out, "\nNajbliższe premiery:")
		for _, u := range home.Upcoming {
			fmt.Fprintf(out, "  %s (%s) - %s\n", u.Title, u.Author, u.Countdown)
		}
		for _, f := range home.Failures {
			fmt.Fprintf(out, "! nieudany zapis %s (%s): %s\n", f.BookID, f.Action, f.Error)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista książek (widoki: all, ip, loaned, read, wish, tbr)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := lib.View(viewFlag)
		if err != nil {
			return err
		}
		printBooks(cmd.OutOrStdout(), books)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Szczegóły książki",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := lib.Get(args[0])
		if err != nil {
			return err
		}
		printBook(cmd.OutOrStdout(), book)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <fraza>",
	Short: "Wyszukiwanie w katalogu po tytule (lub autorze z --author)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := search(cmd, args)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for i, item := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, item.Title, strings.Join(item.Authors, ", "), item.PublishedDate)
		}
		return w.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <fraza>",
	Short: "Dodaje książkę z wyników wyszukiwania (--pick wybiera pozycję)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := search(cmd, args)
		if err != nil {
			return err
		}
		if pickFlag < 1 || pickFlag > len(items) {
			return fmt.Errorf("brak wyniku nr %d (znaleziono %d)", pickFlag, len(items))
		}

		book, err := lib.Add(cmd.Context(), items[pickFlag-1], lifecycle.AddChoice{
			Genre:  genreFlag,
			Format: formatFlag,
			Status: models.ParseStatus(addStatus),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dodano %s: %s\n", book.ID, book.Title)
		return nil
	},
}

func search(cmd *cobra.Command, args []string) ([]models.CatalogItem, error) {
	mode := catalog.ModeTitle
	if authorFlag {
		mode = catalog.ModeAuthor
	}

	res, err := lib.Search(cmd.Context(), strings.Join(args, " "), mode)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("brak wyników (fraza musi mieć co najmniej %d znaki)", catalog.MinQueryLength)
	}
	return res.Items, nil
}

var readCmd = bookCommand("read <id>", "Oznacza jako przeczytaną albo cofa oznaczenie", func(cmd *cobra.Command, id string) (*models.Book, error) {
	return lib.ToggleRead(cmd.Context(), id)
})

var startCmd = bookCommand("start <id>", "Rozpoczyna czytanie", func(cmd *cobra.Command, id string) (*models.Book, error) {
	return lib.StartReading(cmd.Context(), id)
})

var tbrCmd = bookCommand("tbr <id>", "Przenosi do kolejki do przeczytania", func(cmd *cobra.Command, id string) (*models.Book, error) {
	return lib.AdvanceToTbr(cmd.Context(), id)
})

// bookCommand buduje polecenie z jednym argumentem ID, które wypisuje zmienioną książkę
func bookCommand(use, short string, run func(*cobra.Command, string) (*models.Book, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := run(cmd, args[0])
			if err != nil {
				return err
			}
			printBook(cmd.OutOrStdout(), book)
			return nil
		},
	}
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <none|wish|tbr|ip>",
	Short: "Ustawia status książki",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := models.LookupStatus(args[1])
		if !ok {
			return fmt.Errorf("%w: nieznany status %q", lifecycle.ErrValidation, args[1])
		}

		book, err := lib.SetStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		printBook(cmd.OutOrStdout(), book)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edytuje dane książki; pominięte flagi zostawiają obecne wartości",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := lib.Get(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		form := lifecycle.EditForm{
			Title:   book.Title,
			Authors: book.AuthorsLine(),
			Genre:   book.Genre,
			Format:  book.Format,
			Status:  string(book.Status),
		}
		if flags.Changed("title") {
			form.Title = editTitle
		}
		if flags.Changed("authors") {
			form.Authors = editAuthors
		}
		if flags.Changed("genre") {
			form.Genre = editGenre
		}
		if flags.Changed("format") {
			form.Format = editFormat
		}
		if flags.Changed("status") {
			form.Status = editStatus
		}
		if flags.Changed("published") {
			form.PublishedDate = &editPublished
		}
		if flags.Changed("pages") {
			form.Pages = &editPages
		}
		if flags.Changed("sm-cover") {
			form.SmCover = &editSmCover
		}
		if flags.Changed("lg-cover") {
			form.LgCover = &editLgCover
		}

		book, err = lib.Edit(cmd.Context(), args[0], form)
		if err != nil {
			return err
		}
		printBook(cmd.OutOrStdout(), book)
		return nil
	},
}

var loanCmd = &cobra.Command{
	Use:   "loan <id> [pożyczający]",
	Short: "Pożycza książkę albo rejestruje zwrot",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, applied, err := lib.ToggleLoan(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if !applied {
			fmt.Fprintln(cmd.OutOrStdout(), "Nie podano pożyczającego - bez zmian")
			return nil
		}
		printBook(cmd.OutOrStdout(), book)
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <id> <1-5> [recenzja]",
	Short: "Ocenia książkę",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stars, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: ocena %q nie jest liczbą", lifecycle.ErrInvalidRating, args[1])
		}

		book, err := lib.Rate(cmd.Context(), args[0], stars, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		printBook(cmd.OutOrStdout(), book)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Usuwa książkę",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := lib.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usunięto %s\n", args[0])
		return nil
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Przyszłe premiery z odliczaniem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, u := range lib.Upcoming() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Title, u.Author, u.Series, u.ReleaseDate.Format("2006-01-02"), u.Countdown)
		}
		return w.Flush()
	},
}

var upcomingAddCmd = &cobra.Command{
	Use:   "add <tytuł>",
	Short: "Dodaje zapowiedź",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse("2006-01-02", upDate)
		if err != nil {
			return fmt.Errorf("%w: data premiery w formacie RRRR-MM-DD", lifecycle.ErrValidation)
		}

		u, err := lib.AddUpcoming(cmd.Context(), models.UpcomingBook{
			Title:       strings.Join(args, " "),
			Author:      upAuthor,
			Series:      upSeries,
			ReleaseDate: date,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dodano zapowiedź %s: %s\n", u.ID, u.Title)
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Konta użytkowników",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Zakłada konto z hasłem w Firebase Auth",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if accEmail == "" || len(accPassword) < 6 {
			return fmt.Errorf("%w: wymagany email i hasło (min. 6 znaków)", lifecycle.ErrValidation)
		}

		user, err := accounts.CreateAccount(cmd.Context(), accEmail, accPassword, accName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Utworzono konto %s (UID: %s)\n", user.Email, user.UID)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&viewFlag, "view", lifecycle.ViewAll, "widok: all, ip, loaned, read, wish, tbr")

	searchCmd.Flags().BoolVar(&authorFlag, "author", false, "szukaj po autorze")
	addCmd.Flags().BoolVar(&authorFlag, "author", false, "szukaj po autorze")
	addCmd.Flags().IntVar(&pickFlag, "pick", 1, "numer wyniku wyszukiwania")
	addCmd.Flags().StringVar(&genreFlag, "genre", "", "gatunek (wymagany)")
	addCmd.Flags().StringVar(&formatFlag, "format", "", "format (wymagany)")
	addCmd.Flags().StringVar(&addStatus, "status", string(models.StatusNone), "status: none, wish, tbr, ip")

	editCmd.Flags().StringVar(&editTitle, "title", "", "tytuł")
	editCmd.Flags().StringVar(&editAuthors, "authors", "", "autorzy oddzieleni przecinkami")
	editCmd.Flags().StringVar(&editGenre, "genre", "", "gatunek")
	editCmd.Flags().StringVar(&editFormat, "format", "", "format")
	editCmd.Flags().StringVar(&editStatus, "status", "", "status: none, wish, tbr, ip")
	editCmd.Flags().StringVar(&editPublished, "published", "", "data wydania")
	editCmd.Flags().IntVar(&editPages, "pages", 0, "liczba stron")
	editCmd.Flags().StringVar(&editSmCover, "sm-cover", "", "adres małej okładki")
	editCmd.Flags().StringVar(&editLgCover, "lg-cover", "", "adres dużej okładki")

	upcomingAddCmd.Flags().StringVar(&upAuthor, "author", "", "autor")
	upcomingAddCmd.Flags().StringVar(&upSeries, "series", "", "seria")
	upcomingAddCmd.Flags().StringVar(&upDate, "date", "", "data premiery RRRR-MM-DD")
	upcomingCmd.AddCommand(upcomingAddCmd)

	accountCreateCmd.Flags().StringVar(&accEmail, "email", "", "email")
	accountCreateCmd.Flags().StringVar(&accPassword, "password", "", "hasło")
	accountCreateCmd.Flags().StringVar(&accName, "name", "", "nazwa wyświetlana")
	accountCmd.AddCommand(accountCreateCmd)
}

func printBooks(out io.Writer, books []*models.Book) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.AuthorsLine(), b.Status, marks(b))
	}
	w.Flush()
}

func marks(b *models.Book) string {
	var m []string
	if b.IsRead() {
		m = append(m, "przeczytana")
	}
	if b.IsLoaned() {
		if who, ok := b.LoanLog().OpenLoan(); ok {
			m = append(m, "pożyczona: "+who)
		} else {
			m = append(m, "pożyczona")
		}
	}
	if b.Stars > 0 {
		m = append(m, strings.Repeat("*", int(b.Stars)))
	}
	return strings.Join(m, ", ")
}

func printBook(out io.Writer, b *models.Book) {
	fmt.Fprintf(out, "%s  %s\n", b.ID, b.Title)
	fmt.Fprintf(out, "  autorzy:   %s\n", b.AuthorsLine())
	fmt.Fprintf(out, "  status:    %s, przeczytana: %s, pożyczona: %s\n", b.Status, b.Read, b.Loaned)
	if b.Genre != "" || b.Format != "" {
		fmt.Fprintf(out, "  gatunek:   %s, format: %s\n", b.Genre, b.Format)
	}
	if b.PublishedDate != "" || b.Pages > 0 {
		fmt.Fprintf(out, "  wydanie:   %s, stron: %d\n", b.PublishedDate, b.Pages)
	}
	if b.DateStarted != "" {
		fmt.Fprintf(out, "  rozpoczęta: %s\n", b.DateStarted)
	}
	if b.DateFinished != "" {
		fmt.Fprintf(out, "  zakończona: %s\n", b.DateFinished)
	}
	if b.Stars > 0 {
		fmt.Fprintf(out, "  ocena:     %d/5 %s\n", b.Stars, b.Review)
	}
	for _, ev := range b.LoanLog() {
		fmt.Fprintf(out, "  - %s\n", ev)
	}
}
