package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ryokou/internal/itinerary"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Type      string
	Title     string
	At        string
	Location  string
	Price     string
	URL       string
	Memo      string
	Duration  string
	Icon      string
	PhotoPath string
}

// addResult is the JSON payload of add.
type addResult struct {
	Item       itemJSON `json:"item"`
	ImageError string   `json:"image_error,omitempty"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an itinerary item",
		Long: `Add an itinerary item.

--at accepts RFC 3339 or "YYYY-MM-DD HH:MM" in the configured timezone
and defaults to now. --price is a plain number; empty means no price.
A photo that cannot be stored is reported but the item is still added.

Examples:
  ryokou add --type transport --title "Shinkansen" --at "2024-05-01 08:30" --price 13320 --duration 2h15m
  ryokou add --type hotel --title "Ryokan" --location Hakone --photo ./room.jpg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "item type: transport, hotel, restaurant, activity, other (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title (required)")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&opts.At, "at", "", "time of the item (default now)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location name")
	cmd.Flags().StringVar(&opts.Price, "price", "", "price")
	cmd.Flags().StringVar(&opts.URL, "url", "", "location URL (http:// or https://)")
	cmd.Flags().StringVar(&opts.Memo, "memo", "", "free-form memo")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "transport duration")
	cmd.Flags().StringVar(&opts.Icon, "icon", "", "icon name (default per type)")
	cmd.Flags().StringVar(&opts.PhotoPath, "photo", "", "path to a photo")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	out := sess.out

	in, err := opts.newItem(sess.svc.Location())
	if err != nil {
		return out.Fail("invalid item", err)
	}

	res, err := sess.svc.CreateItem(ctx, in)
	if err != nil {
		return out.Fail("failed to add item", err)
	}

	loc := sess.svc.Location()
	if opts.Format == "json" {
		payload := addResult{Item: toItemJSON(res.Item, loc)}
		if res.ImageErr != nil {
			payload.ImageError = res.ImageErr.Error()
		}
		return out.Success(payload)
	}

	fmt.Fprintf(out.Writer, "Added %s %q (%s)\n", res.Item.Type, res.Item.Title, res.Item.ID)
	if res.ImageErr != nil {
		fmt.Fprintf(out.GetErrWriter(), "Warning: photo not saved: %v\n", res.ImageErr)
	}
	return nil
}

// newItem converts the flags into a NewItem. Field validation happens in CreateItem.
func (o *AddOptions) newItem(loc *time.Location) (itinerary.NewItem, error) {
	typ, err := itinerary.ParseItemType(o.Type)
	if err != nil {
		return itinerary.NewItem{}, &itinerary.ValidationError{Field: "Type", Reason: err.Error()}
	}

	price, err := itinerary.ParsePrice(o.Price)
	if err != nil {
		return itinerary.NewItem{}, err
	}

	at := time.Now()
	if o.At != "" {
		at, err = parseTime(o.At, loc)
		if err != nil {
			return itinerary.NewItem{}, &itinerary.ValidationError{Field: "Timestamp", Reason: err.Error()}
		}
	}

	var photo []byte
	if o.PhotoPath != "" {
		photo, err = os.ReadFile(o.PhotoPath)
		if err != nil {
			return itinerary.NewItem{}, &itinerary.ValidationError{Field: "Photo", Reason: err.Error()}
		}
	}

	return itinerary.NewItem{
		Type:              typ,
		Timestamp:         at,
		Title:             o.Title,
		LocationName:      o.Location,
		Price:             price,
		LocationURL:       o.URL,
		Memo:              o.Memo,
		Photo:             photo,
		TransportDuration: o.Duration,
		IconName:          o.Icon,
	}, nil
}

var timeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseTime accepts RFC 3339, or a local date with optional clock time in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}
