package metadata

import "fmt"

// Action names what happened in a history entry.
type Action string

const (
	ActionAssetCreated  Action = "ASSET_CREATED"
	ActionAssetAssigned Action = "ASSET_ASSIGNED"
	ActionAssetReturned Action = "ASSET_RETURNED"
	ActionAssetUpdated  Action = "ASSET_UPDATED"
	ActionAssetDeleted  Action = "ASSET_DELETED"
	ActionStatusChanged Action = "STATUS_CHANGED"
)

func NewAction(value string) (Action, error) {
	action := Action(value)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid history action: %s", value)
	}
	return action, nil
}

func (a Action) IsValid() bool {
	switch a {
	case ActionAssetCreated, ActionAssetAssigned, ActionAssetReturned,
		ActionAssetUpdated, ActionAssetDeleted, ActionStatusChanged:
		return true
	default:
		return false
	}
}
