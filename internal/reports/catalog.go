package reports

// Source selects which Jira instance a report queries.
type Source int

const (
	// SourcePrimary is the basic-auth Jira instance.
	SourcePrimary Source = iota

	// SourceJSM is the service-management instance with PAT auth.
	SourceJSM
)

type Spec struct {
	Key         string
	DisplayName string

	// FileName is the download name offered to the user; spool
	// files are named after the job id.
	FileName string

	// Filter is the fixed JQL clause selecting the report's
	// project and issue types.
	Filter string

	Source Source

	// UTCRange converts the requested IST range to UTC before it
	// goes into JQL, for instances evaluating created in UTC.
	UTCRange bool

	Columns []Column
}

// Fields returns the Jira fields to request, in column order,
// without duplicates.
func (s Spec) Fields() []string {
	seen := make(map[string]struct{}, len(s.Columns))
	fields := make([]string, 0, len(s.Columns))

	for _, c := range s.Columns {
		name := c.Field
		if c.Kind == KindIssueKey {
			continue
		}
		if c.Kind == KindProjectKey {
			name = "project"
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}

	return fields
}

func (s Spec) Headers() []string {
	headers := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Lookup finds a report spec by its catalog key.
func Lookup(key string) (Spec, bool) {
	spec, ok := catalog[key]
	return spec, ok
}

// Keys lists catalog keys in a stable order.
func Keys() []string {
	return []string{
		KeyInfosol,
		KeyOpsTaskBug,
		KeyOpsCR,
		KeyASDIncident,
		KeyASDPM,
		KeyJSMIncident,
	}
}

const (
	KeyInfosol     = "jira_infosol"
	KeyOpsTaskBug  = "jira_ops"
	KeyOpsCR       = "jira_ops_cr"
	KeyASDIncident = "jira_asd_incident"
	KeyASDPM       = "jira_asd_pm"
	KeyJSMIncident = "jsm_incident"
)

var catalog = map[string]Spec{
	KeyInfosol: {
		Key:         KeyInfosol,
		DisplayName: "Infosol",
		FileName:    "JIRA-INFOSOL-Report.csv",
		Filter:      `project = "Infrastructure Solutions"`,
		Source:      SourcePrimary,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Priority", "priority", KindValue},
			{"Task Type", "customfield_10190", KindValue},
			{"Task Sub-Type", "customfield_23875", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Resources", "customfield_10748", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Resolved", "resolutiondate", KindDatetime},
			{"Expected Closure By", "customfield_10072", KindDatetime},
			{"Resolution Completion Date", "customfield_10076", KindDatetime},
			{"Actual Closure Date", "customfield_10090", KindDatetime},
			{"Staging Completion Date/Time", "customfield_18463", KindDatetime},
			{"Production Completion Date/Time", "customfield_18464", KindDatetime},
			{"Start Work Date", "customfield_14073", KindDatetime},
			{"Accepted Date/Time", "customfield_11220", KindDatetime},
			{"Expected Closure By (Reporting)", "customfield_28262", KindDatetime},
			{"Approved Date", "customfield_10697", KindDatetime},
			{"Closure Date/Time", "customfield_15161", KindDatetime},
			{"Planned Start Date", "customfield_12963", KindDateOnly},
			{"Planned End Date", "customfield_12964", KindDateOnly},
			{"Planned Release Date", "customfield_11760", KindDateOnly},
			{"Deployment Location", "customfield_28467", KindValue},
			{"Request Type", "customfield_10007", KindValue},
			{"Complexity", "customfield_14960", KindValue},
			{"Product Variant", "customfield_10078", KindValue},
			{"Customers", "customfield_10001", KindValue},
			{"Justification / Revenue Expectation", "customfield_10120", KindRaw},
			{"Circle", "customfield_11342", KindRaw},
			{"Geography", "customfield_11563", KindValue},
			{"Accepted By", "customfield_26667", KindValue},
			{"Staging Setup Available", "customfield_18161", KindValue},
			{"Downtime Taken", "customfield_18172", KindValue},
			{"Change Type", "customfield_11332", KindValue},
			{"Services", "customfield_25561", KindValue},
			{"Change Process Owner", "customfield_18460", KindValue},
			{"Production UAT Required", "customfield_18461", KindValue},
			{"Request Include In Planner", "customfield_18162", KindValue},
			{"Change Sub Type", "customfield_22260", KindValue},
			{"Staging UAT Required", "customfield_18462", KindValue},
			{"QAed Release", "customfield_20960", KindValue},
			{"Feasibility Testing", "customfield_22362", KindValue},
			{"Expectation Met?", "customfield_19967", KindValue},
			{"Is Security Patch", "customfield_29664", KindValue},
			{"Type of CR", "customfield_25070", KindValue},
			{"Change Category", "customfield_26661", KindValue},
			{"Emergency", "customfield_26660", KindValue},
			{"CR Raised By", "customfield_28760", KindValue},
			{"Is CPO approval needed?", "customfield_26665", KindValue},
			{"Related to Customer Service Team", "customfield_11320", KindValue},
			{"Country", "customfield_11266", KindValue},
			{"Incident Type", "customfield_23863", KindValue},
			{"Incident Sub Type", "customfield_23870", KindValue},
			{"Location Name", "customfield_10591", KindRaw},
			{"Brief Description", "customfield_23866", KindRaw},
			{"L3 Team Analysis/Findings", "customfield_23867", KindRaw},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
			{"Σ Time Spent (Hours)", "aggregatetimespent", KindHours},
		},
	},

	KeyOpsTaskBug: {
		Key:         KeyOpsTaskBug,
		DisplayName: "OPS-Task-Bug",
		FileName:    "JIRA-OPS-Task-Bug-Report.csv",
		Filter:      `project = Operations AND issuetype in (Bug, Task)`,
		Source:      SourcePrimary,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Priority", "priority", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Resources", "customfield_10748", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Resolved", "resolutiondate", KindDatetime},
			{"Expected Closure By", "customfield_10072", KindDatetime},
			{"Resolution Completion Date", "customfield_10076", KindDatetime},
			{"Actual Closure Date", "customfield_10090", KindDatetime},
			{"Initial Start Date", "customfield_22360", KindDatetime},
			{"Start Date", "customfield_11240", KindDatetime},
			{"Issue Reported Date Time", "customfield_22162", KindDatetime},
			{"Task Type", "customfield_10190", KindValue},
			{"Task Sub-Type", "customfield_23875", KindValue},
			{"Request Type", "customfield_10007", KindValue},
			{"Product Variant", "customfield_10078", KindValue},
			{"Customers", "customfield_10001", KindValue},
			{"Circle", "customfield_11342", KindRaw},
			{"Services", "customfield_25561", KindValue},
			{"Type of Bug", "customfield_21460", KindValue},
			{"Reason for Bug", "customfield_15060", KindValue},
			{"Resolved By", "customfield_22361", KindValue},
			{"Fault Attribution", "customfield_23979", KindValue},
			{"Resolution / Completion Details", "customfield_10077", KindRaw},
			{"Response SLA (Bug)", "customfield_21161", KindRaw},
			{"Resolution SLA (Bug)", "customfield_21160", KindRaw},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
		},
	},

	KeyOpsCR: {
		Key:         KeyOpsCR,
		DisplayName: "OPS-CR",
		FileName:    "JIRA-OPS-CR-Report.csv",
		Filter:      `project = Operations AND issuetype = "DevOpsL3Prod - ChangeRequest"`,
		Source:      SourcePrimary,
		UTCRange:    true,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Priority", "priority", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Resources", "customfield_10748", KindValue},
			{"Accepted By", "customfield_26667", KindValue},
			{"MOP Reviewer", "customfield_30060", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Resolved", "resolutiondate", KindDatetime},
			{"Expected Closure By", "customfield_10072", KindDatetime},
			{"Production UAT Start", "customfield_18176", KindDatetime},
			{"Production UAT Closed", "customfield_18170", KindDatetime},
			{"Actual Closure Date", "customfield_10090", KindDatetime},
			{"Production Completion Date", "customfield_18464", KindDatetime},
			{"Start Work Date", "customfield_14073", KindDatetime},
			{"Accepted Date/Time", "customfield_11220", KindDatetime},
			{"Expected Closure Reporting", "customfield_28262", KindDatetime},
			{"Planned Start Date", "customfield_12963", KindDateOnly},
			{"Planned End Date", "customfield_12964", KindDateOnly},
			{"Customers", "customfield_10001", KindValue},
			{"Request Type", "customfield_10007", KindValue},
			{"Product Variant", "customfield_10078", KindValue},
			{"Staging Setup Available", "customfield_18161", KindValue},
			{"Downtime Taken", "customfield_18172", KindValue},
			{"Change Type", "customfield_11332", KindValue},
			{"Change Process Owner", "customfield_18460", KindValue},
			{"Production UAT Required", "customfield_18461", KindValue},
			{"Request Include In Planner", "customfield_18162", KindValue},
			{"Change Sub Type", "customfield_22260", KindValue},
			{"Staging UAT Required", "customfield_18462", KindValue},
			{"QAed Release", "customfield_20960", KindValue},
			{"Expectation Met?", "customfield_19967", KindValue},
			{"Raised By", "customfield_23260", KindValue},
			{"Type of CR", "customfield_25070", KindValue},
			{"Change Category", "customfield_26661", KindValue},
			{"Emergency", "customfield_26660", KindValue},
			{"Type Of Request", "customfield_27571", KindValue},
			{"Required Reporting Validation", "customfield_28260", KindValue},
			{"Related to Customer Service Team", "customfield_11320", KindValue},
			{"Services", "customfield_25561", KindValue},
			{"Change Classification", "customfield_29663", KindValue},
			{"Is Security Patch", "customfield_29664", KindValue},
			{"Change Execution Mode", "customfield_30062", KindValue},
			{"OARM_JOB_ID", "customfield_30063", KindRaw},
			{"MOP Documents Attached", "customfield_30061", KindValue},
			{"Feasibility Testing", "customfield_22362", KindValue},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
		},
	},

	KeyASDIncident: {
		Key:         KeyASDIncident,
		DisplayName: "ASD-Incident",
		FileName:    "JIRA-ASD-INCIDENT-Report.csv",
		Filter:      `project = asd AND issuetype = Incident`,
		Source:      SourcePrimary,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Priority", "priority", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Resolved", "resolutiondate", KindDatetime},
			{"Application Name", "customfield_15960", KindValue},
			{"Unit", "customfield_15570", KindValue},
			{"Incident Source", "customfield_14267", KindValue},
			{"Infra_App", "customfield_13861", KindValue},
			{"Incident Geography", "customfield_15560", KindValue},
			{"Country", "customfield_11266", KindValue},
			{"Incident Assigned To", "customfield_13061", KindValue},
			{"Category", "customfield_10694", KindValue},
			{"Closure Code", "customfield_15565", KindValue},
			{"Affected_CI", "customfield_15262", KindRaw},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
		},
	},

	KeyASDPM: {
		Key:         KeyASDPM,
		DisplayName: "ASD-PM",
		FileName:    "JIRA-ASD-PM-Report.csv",
		Filter:      `project = asd AND issuetype = Problem`,
		Source:      SourcePrimary,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Application Name", "customfield_15960", KindValue},
			{"Unit", "customfield_15570", KindValue},
			{"Incident Source", "customfield_14267", KindValue},
			{"Investigation Reason", "customfield_13862", KindValue},
			{"Root Cause Analysis (RCA)", "customfield_10850", KindRaw},
			{"Corrective & Preventive Action (CAPA)", "customfield_10851", KindRaw},
			{"Known Issue", "customfield_29660", KindValue},
			{"Closure Code", "customfield_15565", KindValue},
			{"Infra_App", "customfield_13861", KindValue},
			{"Incident Geography", "customfield_15560", KindValue},
			{"5 Why Analysis", "customfield_15162", KindRaw},
			{"Validator Approved", "customfield_29662", KindValue},
			{"Country", "customfield_11266", KindValue},
			{"Incident Assigned To", "customfield_13061", KindValue},
			{"Category", "customfield_10694", KindValue},
			{"Affected_CI", "customfield_15262", KindRaw},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
		},
	},

	KeyJSMIncident: {
		Key:         KeyJSMIncident,
		DisplayName: "JSM-Incident",
		FileName:    "JSM-INCIDENT-Report.csv",
		Filter:      `issuetype = Incident`,
		Source:      SourceJSM,
		UTCRange:    true,
		Columns: []Column{
			{"Project", "project", KindProjectKey},
			{"Key", "issuekey", KindIssueKey},
			{"Summary", "summary", KindRaw},
			{"Issue Type", "issuetype", KindValue},
			{"Priority", "priority", KindValue},
			{"Status", "status", KindValue},
			{"Assignee", "assignee", KindValue},
			{"Reporter", "reporter", KindValue},
			{"Created", "created", KindDatetime},
			{"Updated", "updated", KindDatetime},
			{"Resolved", "resolutiondate", KindDatetime},
			{"Assigned Date Bot", "customfield_10701", KindDatetime},
			{"Escalation Date L2", "customfield_10300", KindDatetime},
			{"Assigned Date L2", "customfield_10801", KindDatetime},
			{"Escalation Date L3", "customfield_10301", KindDatetime},
			{"Expected Resolution Date/Time", "customfield_11401", KindDatetime},
			{"Summary Details", "customfield_10123", KindRaw},
			{"Source", "customfield_10112", KindValue},
			{"Application", "customfield_10124", KindValue},
			{"Geography", "customfield_10126", KindValue},
			{"Country", "customfield_10127", KindValue},
			{"Unit", "customfield_10130", KindValue},
			{"Site_Location", "customfield_10131", KindRaw},
			{"Affected_CI", "customfield_10125", KindRaw},
			{"Infra_App", "customfield_10132", KindValue},
			{"Issue_Category", "customfield_10133", KindValue},
			{"Owner_Name", "customfield_10134", KindRaw},
			{"Response SLA", "customfield_11403", KindValue},
			{"Resolution SLA", "customfield_11402", KindValue},
			{"Reason for Missed Resolution SLA", "customfield_11404", KindValue},
			{"Services", "customfield_11406", KindValue},
			{"Fault Attribution", "customfield_10143", KindValue},
			{"Closure Code", "customfield_10146", KindValue},
			{"Resolved By (Team)", "customfield_10148", KindValue},
			{"Service Impact", "customfield_11500", KindValue},
			{"Hysteresis_State", "customfield_10136", KindRaw},
			{"Hysteresis_Counter", "customfield_10504", KindRaw},
			{"Call Summary", "customfield_11001", KindRaw},
			{"Assigned Back L2 (Yes/No)", "customfield_10806", KindValue},
			{"Σ Time Spent (Seconds)", "aggregatetimespent", KindSeconds},
		},
	},
}
