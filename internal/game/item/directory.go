package item

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Directory is the live index of item templates and instances.
// All methods are safe for concurrent use.
type Directory struct {
	mu        sync.RWMutex
	templates map[string]*Template
	instances map[uuid.UUID]*Instance
	byOwner   map[int64]map[uuid.UUID]bool
}

// NewDirectory creates a Directory populated with the given templates.
//
// Precondition: all templates must have passed Validate and have unique IDs.
// Postcondition: Returns a Directory or an error on duplicate template IDs.
func NewDirectory(templates []*Template) (*Directory, error) {
	d := &Directory{
		templates: make(map[string]*Template, len(templates)),
		instances: make(map[uuid.UUID]*Instance),
		byOwner:   make(map[int64]map[uuid.UUID]bool),
	}
	for _, t := range templates {
		if _, exists := d.templates[t.ID]; exists {
			return nil, fmt.Errorf("duplicate template ID %q", t.ID)
		}
		d.templates[t.ID] = t
	}
	return d, nil
}

// Template returns the static template with the given ID.
func (d *Directory) Template(id string) (*Template, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.templates[id]
	return t, ok
}

// Add registers a live item instance.
//
// Precondition: inst.TemplateID must reference a registered template.
// Postcondition: The instance is findable by ID and by owner, or an error is
// returned and the directory is unchanged.
func (d *Directory) Add(inst *Instance) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.templates[inst.TemplateID]; !ok {
		return fmt.Errorf("unknown template %q for item %s", inst.TemplateID, inst.ID)
	}
	if _, exists := d.instances[inst.ID]; exists {
		return fmt.Errorf("item %s already registered", inst.ID)
	}
	d.instances[inst.ID] = inst
	if d.byOwner[inst.OwnerID] == nil {
		d.byOwner[inst.OwnerID] = make(map[uuid.UUID]bool)
	}
	d.byOwner[inst.OwnerID][inst.ID] = true
	return nil
}

// Remove deletes an item instance. No-op if absent.
func (d *Directory) Remove(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	inst, ok := d.instances[id]
	if !ok {
		return
	}
	delete(d.instances, id)
	if owned, ok := d.byOwner[inst.OwnerID]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(d.byOwner, inst.OwnerID)
		}
	}
}

// Find resolves an item instance and its template by instance ID.
func (d *Directory) Find(id uuid.UUID) (*Instance, *Template, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	inst, ok := d.instances[id]
	if !ok {
		return nil, nil, false
	}
	tpl, ok := d.templates[inst.TemplateID]
	if !ok {
		return nil, nil, false
	}
	return inst, tpl, true
}

// OwnedBy returns all items held by the given character: equipped and bagged,
// plus banked when includeBanked is set. Order is unspecified.
func (d *Directory) OwnedBy(ownerID int64, includeBanked bool) []*Instance {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var items []*Instance
	for id := range d.byOwner[ownerID] {
		inst := d.instances[id]
		if inst.Banked() && !includeBanked {
			continue
		}
		items = append(items, inst)
	}
	return items
}

// InSlot returns the item the character has equipped in the given slot.
func (d *Directory) InSlot(ownerID int64, slot string) (*Instance, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for id := range d.byOwner[ownerID] {
		inst := d.instances[id]
		if inst.Slot == slot {
			return inst, true
		}
	}
	return nil, false
}
