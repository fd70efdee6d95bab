package importer

import (
	"context"
	"fmt"

	"github.com/agentstation/devicemap/pkg/logging"
)

// createComponents creates every component template of the target under
// parentID. Failures are counted and collected; they do not undo the parent.
func (im *Importer) createComponents(ctx context.Context, target Target, parentID int, outcome *Outcome, stats *Stats) {
	logger := logging.FromContext(ctx)
	ids := make(map[string]map[string]int)

	for _, c := range components {
		items := target.Template.Components(c.key)
		if len(items) == 0 {
			continue
		}
		created := make(map[string]int, len(items))
		ids[c.kind] = created

		for _, item := range items {
			payload := make(map[string]any, len(item)+1)
			for k, v := range item {
				payload[k] = v
			}
			payload[parentField(target.Kind)] = parentID

			if ref, ok := references[c.kind]; ok {
				if name, ok := payload[ref.field].(string); ok {
					if id, ok := ids[ref.kind][name]; ok {
						payload[ref.field] = id
					}
				}
			}

			id, err := im.writer.CreateComponentTemplate(ctx, c.kind, payload)
			if err != nil {
				stats.ComponentErrors++
				msg := fmt.Sprintf("%s %v: %s", c.kind, item["name"], detail(err))
				outcome.ComponentErrors = append(outcome.ComponentErrors, msg)
				logger.Warn().Str("component", c.kind).Interface("name", item["name"]).Str("detail", detail(err)).Msg("Component template not created")
				continue
			}
			if name, ok := item["name"].(string); ok {
				created[name] = id
			}
			stats.Components++
			outcome.Components++
		}
	}
}
