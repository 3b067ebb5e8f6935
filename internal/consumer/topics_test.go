package consumer

import "testing"

func TestParseTopicAliases(t *testing.T) {
	cases := []struct {
		canonical string
		alias     string
	}{
		{"user.events", "user-events"},
		{"order.events", "order-events"},
	}
	for _, tc := range cases {
		ct, ok := ParseTopic(tc.canonical)
		if !ok {
			t.Fatalf("canonical %q not routed", tc.canonical)
		}
		at, ok := ParseTopic(tc.alias)
		if !ok {
			t.Fatalf("alias %q not routed", tc.alias)
		}
		if ct != at {
			t.Errorf("%q and %q resolve to different topics (%v vs %v)", tc.canonical, tc.alias, ct, at)
		}
	}
}

func TestParseTopicUnknown(t *testing.T) {
	if _, ok := ParseTopic("inventory.events"); ok {
		t.Error("unknown topic should not route")
	}
	if _, ok := ParseTopic(""); ok {
		t.Error("empty topic should not route")
	}
}

func TestSubscribedTopicsAllRoutable(t *testing.T) {
	names := SubscribedTopics()
	if len(names) != len(topicNames) {
		t.Fatalf("subscription list has %d names, routing table has %d", len(names), len(topicNames))
	}
	seen := make(map[Topic]bool)
	for _, name := range names {
		topic, ok := ParseTopic(name)
		if !ok {
			t.Errorf("subscribed name %q is not routable", name)
			continue
		}
		seen[topic] = true
	}
	if len(seen) != len(handlers) {
		t.Errorf("subscriptions cover %d topics, handler table has %d", len(seen), len(handlers))
	}
}

func TestEveryTopicHasHandler(t *testing.T) {
	for name, topic := range topicNames {
		if handlers[topic] == nil {
			t.Errorf("topic %q (%v) has no handler", name, topic)
		}
	}
}
