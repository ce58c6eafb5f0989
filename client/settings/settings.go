package settings

import (
	"fmt"

	"github.com/cbodonnell/tetris/pkg/audio"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user data directory
const AppName = "tetris"

const (
	settingsObject   = "settings"
	settingsProperty = "audio"
)

// Settings are the player's preferences kept between sessions
type Settings struct {
	// Volume is the master volume in percent (0..100)
	Volume int  `yaml:"volume"`
	Muted  bool `yaml:"muted"`
}

func Default() Settings {
	return Settings{
		Volume: audio.DefaultVolume,
	}
}

// Manager loads and saves Settings. A nil store keeps settings in memory only.
type Manager struct {
	store    *gdata.Manager
	settings Settings
}

// Open opens the per-user store. A store that cannot be opened leaves the
// manager in memory-only mode.
func Open() *Manager {
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Warn("Failed to open settings store, settings will not be saved: %v", err)
		store = nil
	}
	return NewManager(store)
}

func NewManager(store *gdata.Manager) *Manager {
	m := &Manager{
		store:    store,
		settings: Default(),
	}
	if err := m.Load(); err != nil {
		log.Warn("Failed to load settings, using defaults: %v", err)
	}
	return m
}

// Load replaces the current settings with the stored ones, or the defaults
// when nothing is stored or the stored settings are unreadable.
func (m *Manager) Load() error {
	m.settings = Default()
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %v", err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %v", err)
	}
	loaded.Volume = clampVolume(loaded.Volume)
	m.settings = loaded

	return nil
}

func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}

	data, err := yaml.Marshal(&m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %v", err)
	}

	return nil
}

func (m *Manager) Get() Settings {
	return m.settings
}

// Update applies fn to the settings and saves them.
func (m *Manager) Update(fn func(s *Settings)) error {
	fn(&m.settings)
	m.settings.Volume = clampVolume(m.settings.Volume)
	return m.Save()
}

func clampVolume(v int) int {
	return max(0, min(100, v))
}
