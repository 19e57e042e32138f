package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/agreementchain/agreements/pkg/views"
	"github.com/jedib0t/go-pretty/v6/table"
)

func (r *Renderer) Dashboard(v *views.DashboardView) {
	r.println(titleStyle, "Agreements of %s", v.Wallet)
	r.loading(v.Loading)

	if len(v.Agreements) == 0 {
		fmt.Fprintln(r.out, "No agreements found")
		return
	}

	rows := make([]table.Row, 0, len(v.Agreements))
	for _, c := range v.Agreements {
		total := "-"
		if c.TotalStakeholders != nil {
			total = c.TotalStakeholders.String()
		}

		title := orDash(c.Title)
		if c.Loading {
			title = r.sprint(loadingStyle, "loading")
		}

		rows = append(rows, table.Row{c.Address, title, c.StateLabel, total})
	}

	r.table(table.Row{"Address", "Title", "State", "Stakeholders"}, rows)
}

func (r *Renderer) Contract(v *views.ContractView) {
	r.println(titleStyle, "%s", orDash(v.Title))
	r.loading(v.Loading)

	r.field("Address", v.Address)
	r.field("Description", orDash(v.Description))
	r.field("State", v.StateLabel)

	if v.Creation != nil {
		r.field("Created by", v.Creation.Creator)
		r.field("Created in", v.Creation.TransactionHash)
	}
	if v.CreatedAt != nil {
		r.field("Created at", v.CreatedAt.Format(time.RFC3339))
	}

	fmt.Fprintln(r.out)
	r.println(sectionStyle, "STAKEHOLDERS")
	for _, s := range v.Stakeholders {
		fmt.Fprintf(r.out, "  %s\n", s)
	}

	fmt.Fprintln(r.out)
	r.println(sectionStyle, "CONDITIONS")
	if len(v.Conditions) == 0 {
		fmt.Fprintln(r.out, "  none")
		return
	}

	rows := make([]table.Row, 0, len(v.Conditions))
	for _, c := range v.Conditions {
		rows = append(rows, table.Row{c.Key, c.Value})
	}
	r.table(table.Row{"Key", "Value"}, rows)
}

func (r *Renderer) items(items []agreement.MergedItem) {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		tx := r.sprint(loadingStyle, "pending")
		if it.HasTransaction() {
			tx = short(it.TransactionHash)
		}

		rows = append(rows, table.Row{
			short(it.ActionID),
			it.Label,
			it.Key,
			votes(it.ApprovalCount, it.RejectionCount),
			it.Vote().String(),
			tx,
		})
	}

	r.table(table.Row{"ID", "Type", "Key", "Votes", "Your vote", "Tx"}, rows)
}

func (r *Renderer) Requests(v *views.RequestsView) {
	r.println(titleStyle, "Requests of %s", v.Contract)
	r.loading(v.Loading)

	if len(v.Items) == 0 {
		fmt.Fprintln(r.out, "No pending requests")
		return
	}

	r.items(v.Items)
}

func (r *Renderer) Conditions(v *views.ConditionsView) {
	r.println(titleStyle, "Pending conditions of %s", v.Contract)
	r.loading(v.Loading)

	r.println(sectionStyle, "ADDITIONS")
	if len(v.Additions) == 0 {
		fmt.Fprintln(r.out, "  none")
	} else {
		rows := make([]table.Row, 0, len(v.Additions))
		for _, c := range v.Additions {
			rows = append(rows, table.Row{
				short(c.ConditionID),
				c.Details.Key,
				c.Details.Value,
				votes(c.Details.ApprovalCount, c.Details.RejectionCount),
				c.Details.UserApprovalStatus.String(),
			})
		}
		r.table(table.Row{"ID", "Key", "Value", "Votes", "Your vote"}, rows)
	}

	fmt.Fprintln(r.out)
	r.println(sectionStyle, "REMOVALS")
	if len(v.Removals) == 0 {
		fmt.Fprintln(r.out, "  none")
		return
	}
	r.items(v.Removals)
}

func (r *Renderer) Voters(approvers, rejectors []string, origin *agreement.TxOrigin, loading bool) {
	r.loading(loading)

	if origin != nil {
		r.field("Proposed by", origin.From)
		r.field("Transaction", origin.TransactionHash)
		if origin.Timestamp != nil {
			r.field("Proposed at", origin.Timestamp.Format(time.RFC3339))
		}
	}

	r.field("Approved by", orDash(strings.Join(approvers, ", ")))
	r.field("Rejected by", orDash(strings.Join(rejectors, ", ")))
}
