package navmenu

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/navadmin/navmenu/pkg/menutree"
	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// Menu handlers

func (a *App) handleCreateMenu(w http.ResponseWriter, r *http.Request) {
	var menu models.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if menu.Name == "" || menu.Slug == "" {
		respondError(w, http.StatusBadRequest, "Menu name and slug are required")
		return
	}

	ctx := r.Context()
	if err := a.store.CreateMenu(ctx, &menu); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, menu)
}

func (a *App) handleListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := a.store.ListMenus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, menus)
}

func (a *App) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	menu, err := a.store.GetMenu(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if menu == nil {
		respondError(w, http.StatusNotFound, "Menu not found")
		return
	}

	respondJSON(w, http.StatusOK, menu)
}

func (a *App) handleUpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	var menu models.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menu.ID = id

	ctx := r.Context()
	existing, err := a.store.GetMenu(ctx, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Menu not found")
		return
	}
	menu.CreatedAt = existing.CreatedAt

	if err := a.store.UpdateMenu(ctx, &menu); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, menu)
}

func (a *App) handleDeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	if err := a.engine.DeleteMenu(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Item tree handlers

func (a *App) handleListRootItems(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	items, err := a.engine.ListRootItems(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (a *App) handleGetTree(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	forest, err := a.engine.BuildForest(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, forest)
}

func (a *App) handleSaveTree(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseMenuID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	var forest []models.TreeNode
	if err := json.NewDecoder(r.Body).Decode(&forest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.engine.SaveTree(r.Context(), id, forest); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Item handlers

func (a *App) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.engine.CreateItem(r.Context(), &item); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (a *App) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := a.engine.GetItem(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (a *App) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	item.ID = id

	if err := a.engine.UpdateItem(r.Context(), &item); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (a *App) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := a.engine.DeleteSubtree(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleDuplicateItem(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseItemID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	clone, err := a.engine.Duplicate(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, clone)
}

// Link type handlers

func (a *App) handleListItemTypes(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = a.config.DefaultLocale
	}
	respondJSON(w, http.StatusOK, a.types.Describe(locale))
}

// Admin handlers

func (a *App) handleGetReadOnly(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"read_only": a.IsReadOnly()})
}

func (a *App) handleSetReadOnly(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReadOnly bool `json:"read_only"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	a.SetReadOnly(body.ReadOnly)
	respondJSON(w, http.StatusOK, map[string]bool{"read_only": a.IsReadOnly()})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"backend": a.config.Backend,
		"time":    time.Now().Unix(),
	}
	respondJSON(w, http.StatusOK, response)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a standardized JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps engine errors onto HTTP statuses: missing
// records become 404, validation failures 400, everything else 500.
func respondEngineError(w http.ResponseWriter, err error) {
	var verr *menutree.ValidationError
	switch {
	case errors.Is(err, store.ErrMenuNotFound):
		respondError(w, http.StatusNotFound, "Menu not found")
	case errors.Is(err, store.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "Menu item not found")
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
