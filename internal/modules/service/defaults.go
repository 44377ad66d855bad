package service

// Default resource bodies seeded into every new project. Stored as yaml text
// and handed verbatim to the runtime.

const defaultCredentials = `rasa:
  url: 'http://localhost:5005'
rest:
  # REST channel for external clients
`

const defaultEndpoints = `nlg:
  url: 'http://localhost:8080/api/v1/nlg'
action_endpoint:
  url: 'http://localhost:5055/webhook'
tracker_store:
  store_type: sql
`

const defaultPolicies = `policies:
  - name: MemoizationPolicy
  - name: TEDPolicy
    max_history: 5
    epochs: 100
  - name: RulePolicy
`

const defaultDomain = `actions:
  - utter_get_started
  - utter_default
`

const introStoryGroupName = "Intro stories"
const defaultStoryGroupName = "Default stories"

const introStory = `* get_started
  - utter_get_started
`

const defaultFallbackStory = `* nlu_fallback
  - utter_default
`
