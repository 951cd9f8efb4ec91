package v1

const (
	WorkshopKind   = "Workshop"
	WorkshopPlural = "workshops"

	// Resource management labels
	LabelApp            = "app"
	LabelAppValue       = "orchestra-operator"
	LabelManagedBy      = "managed-by"
	LabelManagedByValue = "orchestra-api"
	// LabelWorkshop is set on the Workshop and on every pod/ingress the operator creates for it.
	LabelWorkshop = "orchestra.io/workshop"
)

// Condition types reported by the operator.
const (
	ConditionReady        = "Ready"
	ConditionPodReady     = "PodReady"
	ConditionIngressReady = "IngressReady"
	ConditionStorageReady = "StorageReady"
	ConditionFailed       = "Failed"
)
