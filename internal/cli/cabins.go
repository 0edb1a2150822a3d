package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/imagex"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

func (a *App) Cabins(ctx context.Context, _ []string) error {
	for _, c := range a.store.Cabins() {
		photo := ""
		if c.HasImage() {
			photo = "  [photo]"
		}
		fmt.Fprintf(a.out, "%3d  %s%s\n", c.ID, c.Name, photo)
	}
	return nil
}

func (a *App) cabinArg(args []string) (models.Cabin, error) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		v, err := GetSimpleText(a.reader, "Cabin id", a.out)
		if err != nil {
			return models.Cabin{}, err
		}
		raw = v
	}
	id, err := parseCabinID(raw)
	if err != nil {
		return models.Cabin{}, err
	}
	return a.store.Cabin(id)
}

// Rename sets a cabin's display name: rename <id> [new name].
func (a *App) Rename(ctx context.Context, args []string) error {
	c, err := a.cabinArg(args)
	if err != nil {
		return a.fail(ctx, err)
	}

	name := ""
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	} else {
		name, err = GetWithDefault(a.reader, "New name", c.Name, a.out)
		if err != nil {
			return a.fail(ctx, err)
		}
	}

	if err := a.store.UpdateCabin(ctx, c.ID, models.CabinPatch{Name: &name}); err != nil {
		return a.reportPersist(ctx, err)
	}
	fmt.Fprintf(a.out, "Cabin %d renamed to %q\n", c.ID, name)
	return nil
}

// Photo sets or removes a cabin's photo: photo <id> [file|-].
func (a *App) Photo(ctx context.Context, args []string) error {
	c, err := a.cabinArg(args)
	if err != nil {
		return a.fail(ctx, err)
	}

	path := ""
	if len(args) > 1 {
		path = strings.Join(args[1:], " ")
	} else {
		path, err = GetSimpleText(a.reader, "Image file (\"-\" removes the current photo)", a.out)
		if err != nil {
			return a.fail(ctx, err)
		}
	}

	var patch models.CabinPatch
	switch path {
	case "":
		fmt.Fprintln(a.out, "No file given, photo unchanged")
		return nil
	case "-":
		patch.RemoveImage = true
	default:
		uri, err := imagex.EncodeFile(path, a.config.MaxImageBytes)
		if err != nil {
			return a.fail(ctx, err)
		}
		patch.Image = &uri
	}

	if err := a.store.UpdateCabin(ctx, c.ID, patch); err != nil {
		return a.reportPersist(ctx, err)
	}
	if patch.RemoveImage {
		fmt.Fprintf(a.out, "Photo removed from %s\n", c.Name)
	} else {
		fmt.Fprintf(a.out, "Photo set for %s\n", c.Name)
	}
	return nil
}
