package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/erazemk/popis/internal/model"
)

// fakeStore is an in-memory Registry, Rooms and Sessions.
type fakeStore struct {
	rooms      map[int64]*model.Room
	equipment  map[int64]*model.Equipment
	types      []model.EquipmentType
	sessions   map[int64]*model.Session
	results    map[int64][]model.Result
	additional map[int64][]model.AdditionalItem
	nextID     int64

	failReplace error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:      make(map[int64]*model.Room),
		equipment:  make(map[int64]*model.Equipment),
		sessions:   make(map[int64]*model.Session),
		results:    make(map[int64][]model.Result),
		additional: make(map[int64][]model.AdditionalItem),
		types:      []model.EquipmentType{{ID: 1, Name: "Monitor"}, {ID: 2, Name: "Stol"}},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addRoom(name string) *model.Room {
	r := &model.Room{ID: f.id(), Name: name, Floor: 1}
	f.rooms[r.ID] = r
	return r
}

func (f *fakeStore) addEquipment(roomID int64, name string, qty int) *model.Equipment {
	e := &model.Equipment{ID: f.id(), Name: name, TypeID: 1, TypeName: "Monitor", RoomID: &roomID, Quantity: qty, Status: model.EquipmentActive}
	f.equipment[e.ID] = e
	return e
}

func (f *fakeStore) ListEquipmentByRoom(_ context.Context, roomID int64) ([]model.Equipment, error) {
	var list []model.Equipment
	for _, e := range f.equipment {
		if e.RoomID != nil && *e.RoomID == roomID {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeStore) GetEquipment(_ context.Context, id int64) (*model.Equipment, error) {
	e, ok := f.equipment[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (f *fakeStore) ListTypes(context.Context) ([]model.EquipmentType, error) {
	return f.types, nil
}

func (f *fakeStore) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (f *fakeStore) CreateSession(_ context.Context, in model.NewSession) (*model.Session, error) {
	s := &model.Session{ID: f.id(), Name: in.Name, RoomID: in.RoomID, CreatedBy: in.CreatedBy, Status: model.SessionDraft, CreatedAt: time.Now()}
	f.sessions[s.ID] = s
	c := *s
	return &c, nil
}

func (f *fakeStore) GetSession(_ context.Context, id int64) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (f *fakeStore) ReplaceResults(_ context.Context, sessionID int64, rows []model.ResultRow, status model.SessionStatus) error {
	if f.failReplace != nil {
		return f.failReplace
	}
	s, ok := f.sessions[sessionID]
	if !ok {
		return model.ErrNotFound
	}
	if s.Status.Terminal() {
		return model.ErrSessionCompleted
	}

	results := make([]model.Result, 0, len(rows))
	for _, r := range rows {
		e := f.equipment[r.EquipmentID]
		results = append(results, model.Result{
			ID: f.id(), SessionID: sessionID, EquipmentID: r.EquipmentID,
			ExpectedQuantity: r.Expected, ActualQuantity: r.Actual, Note: r.Note,
			EquipmentName: e.Name, TypeName: e.TypeName,
		})
	}
	f.results[sessionID] = results
	s.Status = status
	s.CompletedAt = nil
	if status == model.SessionCompleted {
		now := time.Now()
		s.CompletedAt = &now
	}
	return nil
}

func (f *fakeStore) ListResults(_ context.Context, sessionID int64) ([]model.Result, error) {
	return append([]model.Result(nil), f.results[sessionID]...), nil
}

func (f *fakeStore) AddAdditionalItem(_ context.Context, item model.AdditionalItem) (*model.AdditionalItem, error) {
	item.ID = f.id()
	f.additional[item.SessionID] = append(f.additional[item.SessionID], item)
	return &item, nil
}

func (f *fakeStore) RemoveAdditionalItem(_ context.Context, sessionID, itemID int64) error {
	items := f.additional[sessionID]
	for i, it := range items {
		if it.ID == itemID {
			f.additional[sessionID] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) ListAdditionalItems(_ context.Context, sessionID int64) ([]model.AdditionalItem, error) {
	return append([]model.AdditionalItem(nil), f.additional[sessionID]...), nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id int64) (bool, error) {
	if _, ok := f.sessions[id]; !ok {
		return false, nil
	}
	delete(f.sessions, id)
	delete(f.results, id)
	delete(f.additional, id)
	return true, nil
}
