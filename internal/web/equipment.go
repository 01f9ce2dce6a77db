package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/popis/internal/export"
	"github.com/erazemk/popis/internal/importer"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/photos"
	"github.com/erazemk/popis/internal/store"
)

// formLists are the choices every equipment form offers.
type formLists struct {
	Types []model.EquipmentType
	Rooms []model.Room
}

func (s *Server) loadFormLists(r *http.Request) (formLists, error) {
	types, err := store.ListTypes(r.Context(), s.DB)
	if err != nil {
		return formLists{}, err
	}
	rooms, err := store.ListRooms(r.Context(), s.DB)
	if err != nil {
		return formLists{}, err
	}
	return formLists{Types: types, Rooms: rooms}, nil
}

// parseEquipmentForm reads the fields shared by the create and edit forms.
func parseEquipmentForm(r *http.Request) (model.EquipmentInput, error) {
	typeID, err := formID(r, "type_id")
	if err != nil {
		return model.EquipmentInput{}, err
	}
	roomID, err := formID(r, "room_id")
	if err != nil {
		return model.EquipmentInput{}, err
	}
	quantity, err := formInt(r, "quantity")
	if err != nil {
		return model.EquipmentInput{}, err
	}

	in := model.EquipmentInput{
		Name:            r.FormValue("name"),
		TypeID:          typeID,
		InventoryNumber: r.FormValue("inventory_number"),
		SerialNumber:    r.FormValue("serial_number"),
		Quantity:        quantity,
		Status:          model.EquipmentStatus(r.FormValue("status")),
		PurchaseDate:    r.FormValue("purchase_date"),
		Comment:         r.FormValue("comment"),
	}
	if roomID > 0 {
		in.RoomID = &roomID
	}
	return in, nil
}

// EquipmentPage handles GET /equipment?type=&status=&room=.
func (s *Server) EquipmentPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Oprema", "equipment")

	filter, err := model.ParseEquipmentFilter(r.URL.Query())
	if err != nil {
		data.Error = err.Error()
	}

	list, err := store.ListEquipment(r.Context(), s.DB, filter)
	if err != nil {
		s.serverError(w, r, "failed to list equipment", err)
		return
	}
	lists, err := s.loadFormLists(r)
	if err != nil {
		s.serverError(w, r, "failed to load form lists", err)
		return
	}

	s.Templates.Render(w, "equipment.html", &struct {
		PageData
		formLists
		Equipment []model.Equipment
		Filter    model.EquipmentFilter
		CSVURL    string
		XLSXURL   string
	}{
		PageData:  data,
		formLists: lists,
		Equipment: list,
		Filter:    filter,
		CSVURL:    exportURL("/equipment/export.csv", r.URL.Query()),
		XLSXURL:   exportURL("/equipment/export.xlsx", r.URL.Query()),
	})
}

// EquipmentNewPage handles GET /equipment/new. A room query parameter
// preselects the room.
func (s *Server) EquipmentNewPage(w http.ResponseWriter, r *http.Request) {
	lists, err := s.loadFormLists(r)
	if err != nil {
		s.serverError(w, r, "failed to load form lists", err)
		return
	}

	e := model.Equipment{Quantity: 1, Status: model.EquipmentActive}
	if id, err := formID(r, "room"); err == nil && id > 0 {
		e.RoomID = &id
	}

	s.renderEquipmentForm(w, r, "Nova oprema", &e, lists)
}

func (s *Server) renderEquipmentForm(w http.ResponseWriter, r *http.Request, title string, e *model.Equipment, lists formLists) {
	s.Templates.Render(w, "equipment_form.html", &struct {
		PageData
		formLists
		Equipment *model.Equipment
	}{
		PageData:  s.page(r, title, "equipment"),
		formLists: lists,
		Equipment: e,
	})
}

// EquipmentCreateSubmit handles POST /equipment.
func (s *Server) EquipmentCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := parseEquipmentForm(r)
	if err != nil {
		redirectErr(w, r, "/equipment/new", err)
		return
	}

	e, err := store.CreateEquipment(r.Context(), s.DB, in)
	if err != nil {
		redirectErr(w, r, "/equipment/new", err)
		return
	}

	slog.Info("equipment created", "id", e.ID, "name", e.Name)
	redirectOK(w, r, fmt.Sprintf("/equipment/%d", e.ID), "Oprema je dodana.")
}

// getLiveEquipment loads equipment for a page, rendering 404 when it is
// missing or deleted.
func (s *Server) getLiveEquipment(w http.ResponseWriter, r *http.Request) (*model.Equipment, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID opreme.")
		return nil, false
	}

	e, err := store.GetEquipment(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "failed to get equipment", err)
		return nil, false
	}
	if e == nil || e.DeletedAt != nil {
		s.renderError(w, r, http.StatusNotFound, "Oprema ne obstaja.")
		return nil, false
	}
	return e, true
}

// EquipmentDetailPage handles GET /equipment/{id}.
func (s *Server) EquipmentDetailPage(w http.ResponseWriter, r *http.Request) {
	e, ok := s.getLiveEquipment(w, r)
	if !ok {
		return
	}

	movements, err := store.ListMovementsByEquipment(r.Context(), s.DB, e.ID)
	if err != nil {
		slog.Error("failed to list equipment movements", "error", err)
	}
	rooms, err := store.ListRooms(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list rooms", "error", err)
	}

	s.Templates.Render(w, "equipment_detail.html", &struct {
		PageData
		Equipment *model.Equipment
		Movements []model.Movement
		Rooms     []model.Room
	}{
		PageData:  s.page(r, e.Name, "equipment"),
		Equipment: e,
		Movements: movements,
		Rooms:     rooms,
	})
}

// EquipmentEditPage handles GET /equipment/{id}/edit.
func (s *Server) EquipmentEditPage(w http.ResponseWriter, r *http.Request) {
	e, ok := s.getLiveEquipment(w, r)
	if !ok {
		return
	}
	lists, err := s.loadFormLists(r)
	if err != nil {
		s.serverError(w, r, "failed to load form lists", err)
		return
	}
	s.renderEquipmentForm(w, r, "Urejanje: "+e.Name, e, lists)
}

// EquipmentUpdateSubmit handles POST /equipment/{id}.
func (s *Server) EquipmentUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID opreme.")
		return
	}
	back := fmt.Sprintf("/equipment/%d", id)

	in, err := parseEquipmentForm(r)
	if err != nil {
		redirectErr(w, r, back+"/edit", err)
		return
	}
	if err := store.UpdateEquipment(r.Context(), s.DB, id, in); err != nil {
		redirectErr(w, r, back+"/edit", err)
		return
	}

	slog.Info("equipment updated", "id", id)
	redirectOK(w, r, back, "Spremembe so shranjene.")
}

// EquipmentDeleteSubmit handles POST /equipment/{id}/delete.
func (s *Server) EquipmentDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID opreme.")
		return
	}

	if err := store.DeleteEquipment(r.Context(), s.DB, id); err != nil {
		redirectErr(w, r, fmt.Sprintf("/equipment/%d", id), err)
		return
	}

	slog.Info("equipment deleted", "id", id)
	redirectOK(w, r, "/equipment", "Oprema je izbrisana.")
}

// EquipmentMoveSubmit handles POST /equipment/{id}/move.
func (s *Server) EquipmentMoveSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID opreme.")
		return
	}
	back := fmt.Sprintf("/equipment/%d", id)

	roomID, err := formID(r, "room_id")
	if err == nil && roomID == 0 {
		err = fmt.Errorf("%w: choose the target room", model.ErrInvalid)
	}
	if err != nil {
		redirectErr(w, r, back, err)
		return
	}

	m, err := store.MoveEquipment(r.Context(), s.DB, id, roomID, r.FormValue("reason"))
	if err != nil {
		redirectErr(w, r, back, err)
		return
	}

	slog.Info("equipment moved", "id", id, "from", m.FromRoomName, "to", m.ToRoomName)
	redirectOK(w, r, back, "Oprema je premaknjena v prostor "+m.ToRoomName+".")
}

// EquipmentPhotoSubmit handles POST /equipment/{id}/photo.
func (s *Server) EquipmentPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID opreme.")
		return
	}
	back := fmt.Sprintf("/equipment/%d", id)

	file, _, err := r.FormFile("photo")
	if err != nil {
		redirectErr(w, r, back, fmt.Errorf("%w: photo file required", model.ErrInvalid))
		return
	}
	defer file.Close()

	ref, err := photos.Attach(r.Context(), s.DB, s.Photos, id, file)
	if err != nil {
		redirectErr(w, r, back, err)
		return
	}

	slog.Info("equipment photo set", "id", id, "ref", ref)
	redirectOK(w, r, back, "Fotografija je shranjena.")
}

// GroupAddPage handles GET /equipment/group.
func (s *Server) GroupAddPage(w http.ResponseWriter, r *http.Request) {
	s.renderGroupAdd(w, r, s.page(r, "Skupinski vnos", "equipment"), model.GroupSpec{Count: 1, StartNumber: 1}, nil)
}

func (s *Server) renderGroupAdd(w http.ResponseWriter, r *http.Request, data PageData, spec model.GroupSpec, result *model.BatchResult) {
	lists, err := s.loadFormLists(r)
	if err != nil {
		s.serverError(w, r, "failed to load form lists", err)
		return
	}
	s.Templates.Render(w, "equipment_group.html", &struct {
		PageData
		formLists
		Spec   model.GroupSpec
		Result *model.BatchResult
		Max    int
	}{
		PageData:  data,
		formLists: lists,
		Spec:      spec,
		Result:    result,
		Max:       model.MaxGroupSize,
	})
}

// GroupAddSubmit handles POST /equipment/group.
func (s *Server) GroupAddSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Skupinski vnos", "equipment")

	spec := model.GroupSpec{
		BaseName:        r.FormValue("base_name"),
		InventoryPrefix: r.FormValue("inventory_prefix"),
		Naming:          model.NamingTemplate(r.FormValue("naming")),
		CustomTemplate:  r.FormValue("custom_template"),
		Status:          model.EquipmentStatus(r.FormValue("status")),
		PurchaseDate:    r.FormValue("purchase_date"),
		Comment:         r.FormValue("comment"),
	}
	var err error
	if spec.TypeID, err = formID(r, "type_id"); err == nil {
		if spec.RoomID, err = formID(r, "room_id"); err == nil {
			if spec.Count, err = formInt(r, "count"); err == nil {
				spec.StartNumber, err = formInt(r, "start_number")
			}
		}
	}

	var result *model.BatchResult
	if err == nil {
		result, err = store.GroupAddEquipment(r.Context(), s.DB, spec)
	}
	if err != nil {
		msg, ok := userError(err)
		if !ok {
			s.serverError(w, r, "failed to add equipment group", err)
			return
		}
		data.Error = msg
		s.renderGroupAdd(w, r, data, spec, nil)
		return
	}

	slog.Info("equipment group added", "room", spec.RoomID, "created", result.Created, "failed", len(result.Errors))
	data.Success = fmt.Sprintf("Dodanih enot: %d od %d.", result.Created, result.Total)
	s.renderGroupAdd(w, r, data, spec, result)
}

// ImportPage handles GET /equipment/import.
func (s *Server) ImportPage(w http.ResponseWriter, r *http.Request) {
	s.renderImport(w, s.page(r, "Uvoz opreme", "equipment"), nil)
}

func (s *Server) renderImport(w http.ResponseWriter, data PageData, result *model.BatchResult) {
	s.Templates.Render(w, "equipment_import.html", &struct {
		PageData
		Result  *model.BatchResult
		Columns []string
		MaxRows int
	}{
		PageData: data,
		Result:   result,
		Columns:  importer.Columns,
		MaxRows:  importer.MaxRows,
	})
}

// ImportSubmit handles POST /equipment/import. Files ending in .xlsx are
// read as workbooks, anything else as CSV in the chosen charset.
func (s *Server) ImportSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Uvoz opreme", "equipment")

	file, header, err := r.FormFile("file")
	if err != nil {
		data.Error = "Izberite datoteko za uvoz."
		s.renderImport(w, data, nil)
		return
	}
	defer file.Close()

	var rows []model.ImportRow
	if strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		rows, err = importer.ParseXLSX(file)
	} else {
		rows, err = importer.ParseCSV(file, r.FormValue("charset"))
	}
	if err != nil {
		data.Error = err.Error()
		s.renderImport(w, data, nil)
		return
	}

	result, err := store.ImportEquipment(r.Context(), s.DB, rows)
	if err != nil {
		s.serverError(w, r, "failed to import equipment", err)
		return
	}

	slog.Info("equipment imported", "file", header.Filename, "created", result.Created, "failed", len(result.Errors))
	data.Success = fmt.Sprintf("Uvoženih vrstic: %d od %d.", result.Created, result.Total)
	s.renderImport(w, data, result)
}

func (s *Server) listForExport(w http.ResponseWriter, r *http.Request) ([]model.Equipment, bool) {
	filter, err := model.ParseEquipmentFilter(r.URL.Query())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	list, err := store.ListEquipment(r.Context(), s.DB, filter)
	if err != nil {
		s.serverError(w, r, "failed to list equipment", err)
		return nil, false
	}
	return list, true
}

// exportURL carries the list filters over to an export link.
func exportURL(path string, q url.Values) string {
	keep := url.Values{}
	for _, k := range []string{"type", "status", "room"} {
		if v := q.Get(k); v != "" {
			keep.Set(k, v)
		}
	}
	if len(keep) == 0 {
		return path
	}
	return path + "?" + keep.Encode()
}

func exportName(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("2006-01-02"), ext)
}

// writeDownload sends buf as an attachment.
func writeDownload(w http.ResponseWriter, contentType, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write download", "file", filename, "error", err)
	}
}

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EquipmentExportCSV handles GET /equipment/export.csv with the list filters.
func (s *Server) EquipmentExportCSV(w http.ResponseWriter, r *http.Request) {
	list, ok := s.listForExport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.EquipmentCSV(&buf, list); err != nil {
		s.serverError(w, r, "failed to export equipment", err)
		return
	}
	writeDownload(w, csvContentType, exportName("oprema", "csv"), &buf)
}

// EquipmentExportXLSX handles GET /equipment/export.xlsx with the list filters.
func (s *Server) EquipmentExportXLSX(w http.ResponseWriter, r *http.Request) {
	list, ok := s.listForExport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.EquipmentXLSX(&buf, list); err != nil {
		s.serverError(w, r, "failed to export equipment", err)
		return
	}
	writeDownload(w, xlsxContentType, exportName("oprema", "xlsx"), &buf)
}
