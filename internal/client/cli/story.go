package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/client/services"
)

// List prints all stories, from the server or from the cache.
func (a *App) List(ctx context.Context) {
	result, err := a.storyService.List(ctx)
	if err != nil {
		printlnFn("Failed to load stories: " + err.Error())
		return
	}
	if result.FromCache {
		printlnFn("You are offline, showing cached stories.")
	}
	for _, s := range result.Stories {
		printlnFn(formatStoryLine(s))
	}
	printlnFn(fmt.Sprintf("%d stories", len(result.Stories)))
}

// Show prints one story in full.
func (a *App) Show(ctx context.Context, id string) {
	result, err := a.storyService.Get(ctx, id)
	if err != nil {
		printlnFn("Failed to load story: " + err.Error())
		return
	}
	s := result.Story
	printlnFn("Title:       " + s.Name)
	printlnFn("Description: " + s.Description)
	printlnFn("Created:     " + s.CreatedAt.Format("2006-01-02 15:04"))
	if s.HasLocation() {
		printlnFn(fmt.Sprintf("Location:    %.5f, %.5f", *s.Lat, *s.Lon))
	}
	if s.Offline {
		printlnFn("(saved offline, not submitted yet)")
	}
	if s.Bookmarked {
		printlnFn("(bookmarked)")
	}
}

// Add prompts for a new story and submits it; when the server is down the
// story is saved offline and that is reported as a success.
func (a *App) Add(ctx context.Context) {
	description, err := GetMultiline(a.reader, "Describe your dinosaur find", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	latText, err := getSimpleText(a.reader, "Latitude (empty to skip)", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	lonText, err := getSimpleText(a.reader, "Longitude (empty to skip)", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	photoPath, err := getSimpleText(a.reader, "Photo file (empty to skip)", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	in := services.CreateStoryInput{
		Description: description,
		Lat:         models.ParseCoordinate(latText),
		Lon:         models.ParseCoordinate(lonText),
	}
	if photoPath != "" {
		photo, readErr := os.ReadFile(photoPath)
		if readErr != nil {
			printlnFn("Cannot read photo: " + readErr.Error())
			return
		}
		in.Photo = photo
		in.PhotoName = photoPath
	}

	result, err := a.storyService.Create(ctx, in)
	if err != nil {
		printlnFn("Failed to submit story: " + err.Error())
		return
	}
	if result.SavedOffline {
		printlnFn("Story saved offline! It will be submitted when you are back online.")
	} else {
		printlnFn("Story submitted successfully!")
	}
}

// Bookmark toggles the bookmark on a story id.
func (a *App) Bookmark(ctx context.Context, id string) {
	result, err := a.storyService.Get(ctx, id)
	if err != nil {
		printlnFn("Story not found: " + err.Error())
		return
	}
	on, err := a.storyService.ToggleBookmark(ctx, result.Story.Story)
	if err != nil {
		printlnFn("Failed to toggle bookmark: " + err.Error())
		return
	}
	if on {
		printlnFn("Bookmarked " + result.Story.Name)
	} else {
		printlnFn("Removed bookmark for " + result.Story.Name)
	}
}

// Bookmarks lists bookmarked stories.
func (a *App) Bookmarks(ctx context.Context) {
	stories, err := a.storyService.Bookmarks(ctx)
	if err != nil {
		printlnFn("Failed to load bookmarks: " + err.Error())
		return
	}
	if len(stories) == 0 {
		printlnFn("No bookmarked stories yet.")
		return
	}
	for _, s := range stories {
		printlnFn(formatStoryLine(models.StoryView{Story: s, Bookmarked: true}))
	}
}

// Pending lists stories waiting to be synced.
func (a *App) Pending(ctx context.Context) {
	stories, err := a.storyService.PendingStories(ctx)
	if err != nil {
		printlnFn("Failed to load pending stories: " + err.Error())
		return
	}
	if len(stories) == 0 {
		printlnFn("Nothing waiting to sync.")
		return
	}
	for _, s := range stories {
		printlnFn(formatStoryLine(models.StoryView{Story: s}))
	}
}

// Sync drains the pending queue on demand.
func (a *App) Sync(ctx context.Context) {
	n, err := a.syncer.SyncPending(ctx)
	if err != nil {
		printlnFn("Sync incomplete: " + err.Error())
	}
	printlnFn(fmt.Sprintf("Synced %d stories", n))
}

func formatStoryLine(s models.StoryView) string {
	marks := ""
	if s.Offline {
		marks += " [offline]"
	}
	if s.Bookmarked {
		marks += " [*]"
	}
	return fmt.Sprintf("%s  %s%s  %s", s.ID, s.Name, marks, s.CreatedAt.Format("2006-01-02"))
}
