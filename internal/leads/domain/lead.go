// Package domain holds the lead domain vocabulary shared across modules:
// service types, urgency levels, lead statuses, and their valid values.
package domain

// ServiceType identifies one of the service categories offered on the
// marketplace, spanning HVAC and plumbing.
type ServiceType string

const (
	ServiceHVACRepair        ServiceType = "hvac_repair"
	ServiceHVACInstall       ServiceType = "hvac_install"
	ServiceHVACMaintenance   ServiceType = "hvac_maintenance"
	ServicePlumbingEmergency ServiceType = "plumbing_emergency"
	ServicePlumbingRepair    ServiceType = "plumbing_repair"
	ServicePlumbingInstall   ServiceType = "plumbing_install"
	ServiceWaterHeater       ServiceType = "water_heater"
)

// ServiceTypes lists every supported service type.
var ServiceTypes = []ServiceType{
	ServiceHVACRepair,
	ServiceHVACInstall,
	ServiceHVACMaintenance,
	ServicePlumbingEmergency,
	ServicePlumbingRepair,
	ServicePlumbingInstall,
	ServiceWaterHeater,
}

// Valid reports whether the service type is one of the supported values.
func (s ServiceType) Valid() bool {
	for _, known := range ServiceTypes {
		if s == known {
			return true
		}
	}
	return false
}

var serviceLabels = map[ServiceType]string{
	ServiceHVACRepair:        "HVAC Repair",
	ServiceHVACInstall:       "HVAC Installation",
	ServiceHVACMaintenance:   "HVAC Maintenance",
	ServicePlumbingEmergency: "Emergency Plumbing",
	ServicePlumbingRepair:    "Plumbing Repair",
	ServicePlumbingInstall:   "Plumbing Installation",
	ServiceWaterHeater:       "Water Heater",
}

// Label returns the human-readable name shown on intake forms and emails.
func (s ServiceType) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}

// Urgency captures how soon the homeowner needs service. It drives the
// pricing multiplier applied to fallback lead prices.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyToday     Urgency = "today"
	UrgencyThisWeek  Urgency = "this_week"
	UrgencyFlexible  Urgency = "flexible"
)

// Urgencies lists every supported urgency level.
var Urgencies = []Urgency{
	UrgencyEmergency,
	UrgencyToday,
	UrgencyThisWeek,
	UrgencyFlexible,
}

// Valid reports whether the urgency is one of the supported values.
func (u Urgency) Valid() bool {
	for _, known := range Urgencies {
		if u == known {
			return true
		}
	}
	return false
}

// LeadStatus tracks a lead through its lifecycle. Statuses move forward
// monotonically under normal operation; the routing engine owns only the
// new → sent transition.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusVerified  LeadStatus = "verified"
	LeadStatusSent      LeadStatus = "sent"
	LeadStatusAccepted  LeadStatus = "accepted"
	LeadStatusRejected  LeadStatus = "rejected"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusInvalid   LeadStatus = "invalid"
)

// PropertyType distinguishes residential from commercial requests.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

// LeadSource identifies the acquisition channel a lead came in through.
type LeadSource string

const (
	SourceSEO      LeadSource = "seo"
	SourcePPC      LeadSource = "ppc"
	SourceFacebook LeadSource = "facebook"
	SourceReferral LeadSource = "referral"
	SourceDirect   LeadSource = "direct"
)
