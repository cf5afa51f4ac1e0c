package email

const (
	subjectLeadConfirmation   = "We received your service request"
	subjectContractorAlertFmt = "New lead: %s in %s"
)
