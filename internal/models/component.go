package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Protocol UI访问协议
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

/**
 * Web interface settings of a component, present only when the component has a UI
 * @property {*int} port - UI port (1-65535), nil when absent
 * @property {Protocol} protocol - http or https
 * @property {string} icon - Dashboard tile icon
 * @property {string} section - Dashboard section the tile is placed in
 * @property {*string} urlSuffix - Path appended to the tile URL, may be empty but not absent
 * @property {bool} statusCheck - Whether the dashboard should check the UI status
 */
type UISettings struct {
	Port        *int     `json:"ui_port" validate:"required,min=1,max=65535"`
	Protocol    Protocol `json:"protocol" validate:"required,oneof=http https"`
	Icon        string   `json:"icon" validate:"required"`
	Section     string   `json:"dashy_tile_section" validate:"required"`
	URLSuffix   *string  `json:"dashy_tile_url_suffix" validate:"required"`
	StatusCheck bool     `json:"status_check"`
}

// NewUISettings builds a fully populated UI group.
func NewUISettings(port int, protocol Protocol, icon, section, urlSuffix string, statusCheck bool) *UISettings {
	return &UISettings{
		Port:        &port,
		Protocol:    protocol,
		Icon:        icon,
		Section:     section,
		URLSuffix:   &urlSuffix,
		StatusCheck: statusCheck,
	}
}

// PortValue returns the UI port or 0 when absent.
func (u *UISettings) PortValue() int {
	if u == nil || u.Port == nil {
		return 0
	}
	return *u.Port
}

/**
 * Component definition (one entry of the catalog document)
 * @property {string} name - Display name, required
 * @property {string} description - Free text
 * @property {bool} defaultSelected - Preselected in installers
 * @property {bool} isReverseProxy - At most one component of a catalog may set it
 * @property {*UISettings} ui - Web interface settings, nil when the component has no UI
 * @property {map[string]json.RawMessage} extra - Attributes this program does not interpret
 */
type Component struct {
	Name            string                     `json:"name"`
	Description     string                     `json:"description"`
	DefaultSelected bool                       `json:"default_selected"`
	IsReverseProxy  bool                       `json:"is_reverse_proxy"`
	UI              *UISettings                `json:"-"`
	Extra           map[string]json.RawMessage `json:"-"`
}

// HasUI reports whether the component exposes a web interface.
func (c Component) HasUI() bool {
	return c.UI != nil
}

// Catalog maps component ids to their definitions.
type Catalog map[string]Component

// Keys of the flat document representation.
const (
	keyName            = "name"
	keyDescription     = "description"
	keyDefaultSelected = "default_selected"
	keyHasUI           = "has_ui"
	keyIsReverseProxy  = "is_reverse_proxy"
	keyUIPort          = "ui_port"
	keyProtocol        = "protocol"
	keyIcon            = "icon"
	keySection         = "dashy_tile_section"
	keyURLSuffix       = "dashy_tile_url_suffix"
	keyStatusCheck     = "status_check"
)

var uiKeys = map[string]bool{
	keyUIPort:      true,
	keyProtocol:    true,
	keyIcon:        true,
	keySection:     true,
	keyURLSuffix:   true,
	keyStatusCheck: true,
}

var commonKeys = map[string]bool{
	keyName:            true,
	keyDescription:     true,
	keyDefaultSelected: true,
	keyHasUI:           true,
	keyIsReverseProxy:  true,
}

// MarshalJSON writes the component as a flat attribute object.
// UI keys are emitted only when the component has a UI. A raw value kept in
// Extra under a known key is written back when the typed field is unset.
func (c Component) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Extra)+11)
	out[keyName] = c.Name
	out[keyDescription] = c.Description
	out[keyDefaultSelected] = c.DefaultSelected
	out[keyHasUI] = c.UI != nil
	out[keyIsReverseProxy] = c.IsReverseProxy
	if c.UI != nil {
		if c.UI.Port != nil {
			out[keyUIPort] = *c.UI.Port
		}
		out[keyProtocol] = c.UI.Protocol
		out[keyIcon] = c.UI.Icon
		out[keySection] = c.UI.Section
		if c.UI.URLSuffix != nil {
			out[keyURLSuffix] = *c.UI.URLSuffix
		}
		out[keyStatusCheck] = c.UI.StatusCheck
	}
	for k, v := range c.Extra {
		if _, taken := out[k]; !taken || c.fieldUnset(k) {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat attribute object.
// Unknown keys, values of the wrong type and the UI keys of a component
// without UI are kept verbatim in Extra.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("component must be a JSON object")
	}

	var comp Component
	var hasUI bool
	consumed := make(map[string]bool, len(raw))
	decodeField(raw, keyName, &comp.Name, consumed)
	decodeField(raw, keyDescription, &comp.Description, consumed)
	decodeField(raw, keyDefaultSelected, &comp.DefaultSelected, consumed)
	decodeField(raw, keyHasUI, &hasUI, consumed)
	decodeField(raw, keyIsReverseProxy, &comp.IsReverseProxy, consumed)

	if hasUI {
		ui := &UISettings{}
		decodeField(raw, keyUIPort, &ui.Port, consumed)
		decodeField(raw, keyProtocol, &ui.Protocol, consumed)
		decodeField(raw, keyIcon, &ui.Icon, consumed)
		decodeField(raw, keySection, &ui.Section, consumed)
		decodeField(raw, keyURLSuffix, &ui.URLSuffix, consumed)
		decodeField(raw, keyStatusCheck, &ui.StatusCheck, consumed)
		comp.UI = ui
	}

	for k, v := range raw {
		if consumed[k] {
			continue
		}
		if comp.Extra == nil {
			comp.Extra = make(map[string]json.RawMessage)
		}
		comp.Extra[k] = v
	}

	*c = comp
	return nil
}

// decodeField 解码成功才写入 dst 并标记 key 已消费
func decodeField[T any](raw map[string]json.RawMessage, key string, dst *T, consumed map[string]bool) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var tmp T
	if err := json.Unmarshal(v, &tmp); err != nil {
		return
	}
	*dst = tmp
	consumed[key] = true
}

// fieldUnset reports whether the typed value behind a known key is unset.
func (c Component) fieldUnset(key string) bool {
	switch key {
	case keyName:
		return c.Name == ""
	case keyDescription:
		return c.Description == ""
	case keyDefaultSelected:
		return !c.DefaultSelected
	case keyIsReverseProxy:
		return !c.IsReverseProxy
	case keyHasUI:
		return c.UI == nil
	}
	if c.UI == nil {
		return true
	}
	switch key {
	case keyUIPort:
		return c.UI.Port == nil
	case keyProtocol:
		return c.UI.Protocol == ""
	case keyIcon:
		return c.UI.Icon == ""
	case keySection:
		return c.UI.Section == ""
	case keyURLSuffix:
		return c.UI.URLSuffix == nil
	case keyStatusCheck:
		return !c.UI.StatusCheck
	}
	return true
}

/**
 * Known attribute keys whose stored value has the wrong JSON type
 * @returns {[]string} Sorted keys, empty when every known value decodes
 * @description
 * - UI keys of a component without UI are not interpreted and never reported
 * - A key is reported only while its typed field is unset
 */
func (c Component) InvalidFields() []string {
	var keys []string
	for k, v := range c.Extra {
		if !commonKeys[k] && !uiKeys[k] {
			continue
		}
		if uiKeys[k] && c.UI == nil {
			continue
		}
		if !c.fieldUnset(k) || decodesAs(k, v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodesAs(key string, v json.RawMessage) bool {
	var err error
	switch key {
	case keyName, keyDescription, keyIcon, keySection, keyURLSuffix:
		var s *string
		err = json.Unmarshal(v, &s)
	case keyDefaultSelected, keyHasUI, keyIsReverseProxy, keyStatusCheck:
		var b bool
		err = json.Unmarshal(v, &b)
	case keyUIPort:
		var p *int
		err = json.Unmarshal(v, &p)
	case keyProtocol:
		var p Protocol
		err = json.Unmarshal(v, &p)
	}
	return err == nil
}
