package aws

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/appstream/types"

	"github.com/vietdv277/appsctl/internal/adapter"
)

// Operation is an AppStream operation descriptor
type Operation = adapter.Descriptor[API]

// operation completes d with the request/response plumbing for call, a
// method expression on API such as API.DescribeStacks
func operation[In, Out any](d Operation, call func(API, context.Context, *In, ...func(*appstream.Options)) (*Out, error)) *Operation {
	name := d.Name
	d.NewRequest = func() any { return new(In) }
	d.ResponseType = reflect.TypeFor[Out]()
	d.Invoke = func(ctx context.Context, api API, req any) (any, error) {
		in, ok := req.(*In)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected request type %T", name, req)
		}
		return call(api, ctx, in)
	}
	return &d
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var (
	authTypes       = enumValues(types.AuthenticationType("").Values())
	visibilityTypes = enumValues(types.VisibilityType("").Values())
)

// Shared parameter shapes
func nameParam(usage string) adapter.Param {
	return adapter.Param{Name: "Name", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: usage}
}

func nextToken() adapter.Param {
	return adapter.Param{Name: "NextToken", Kind: adapter.KindString, Usage: "Pagination token from a previous call"}
}

func authType(required bool) adapter.Param {
	return adapter.Param{Name: "AuthenticationType", Kind: adapter.KindEnum, Required: required, Enum: authTypes, Usage: "Authentication type of the user"}
}

var catalogue = []*Operation{
	operation(Operation{
		Name:          "DescribeThemeForStack",
		Description:   "Retrieve the custom branding theme of a stack",
		DefaultSelect: "Theme",
		Params: []adapter.Param{
			{Name: "StackName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Stack whose theme is described"},
		},
	}, API.DescribeThemeForStack),

	operation(Operation{
		Name:          "CreateAppBlockBuilderStreamingURL",
		Description:   "Create a URL to start a streaming session on an app block builder",
		DefaultSelect: "*",
		Mutating:      true,
		Target:        "AppBlockBuilderName",
		Params: []adapter.Param{
			{Name: "AppBlockBuilderName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "App block builder name"},
			{Name: "Validity", Kind: adapter.KindInt, Usage: "Seconds the URL stays valid (1-604800)"},
		},
	}, API.CreateAppBlockBuilderStreamingURL),

	operation(Operation{
		Name:          "BatchAssociateUserStack",
		Description:   "Associate users with stacks",
		DefaultSelect: "Errors",
		Mutating:      true,
		Target:        "UserStackAssociations",
		Params: []adapter.Param{
			{Name: "UserStackAssociations", Kind: adapter.KindJSON, Required: true, Usage: `JSON list of {"StackName","UserName","AuthenticationType","SendEmailNotification"}`},
		},
	}, API.BatchAssociateUserStack),

	operation(Operation{
		Name:          "BatchDisassociateUserStack",
		Description:   "Disassociate users from stacks",
		DefaultSelect: "Errors",
		Mutating:      true,
		Target:        "UserStackAssociations",
		Params: []adapter.Param{
			{Name: "UserStackAssociations", Kind: adapter.KindJSON, Required: true, Usage: `JSON list of {"StackName","UserName","AuthenticationType"}`},
		},
	}, API.BatchDisassociateUserStack),

	operation(Operation{
		Name:          "AssociateApplicationFleet",
		Description:   "Associate an application with a fleet",
		DefaultSelect: "ApplicationFleetAssociation",
		Mutating:      true,
		Target:        "FleetName",
		Params: []adapter.Param{
			{Name: "FleetName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Fleet name"},
			{Name: "ApplicationArn", Kind: adapter.KindString, Required: true, Usage: "Application ARN"},
		},
	}, API.AssociateApplicationFleet),

	operation(Operation{
		Name:          "DisassociateApplicationFleet",
		Description:   "Disassociate an application from a fleet",
		DefaultSelect: "^FleetName",
		Mutating:      true,
		Target:        "FleetName",
		Params: []adapter.Param{
			{Name: "FleetName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Fleet name"},
			{Name: "ApplicationArn", Kind: adapter.KindString, Required: true, Usage: "Application ARN"},
		},
	}, API.DisassociateApplicationFleet),

	operation(Operation{
		Name:          "DescribeStacks",
		Description:   "Describe stacks",
		DefaultSelect: "Stacks",
		Params: []adapter.Param{
			{Name: "Names", Kind: adapter.KindStringList, Positional: true, Usage: "Stack names to describe"},
			nextToken(),
		},
	}, API.DescribeStacks),

	operation(Operation{
		Name:          "DeleteStack",
		Description:   "Delete a stack",
		DefaultSelect: "^Name",
		Mutating:      true,
		Params:        []adapter.Param{nameParam("Stack name")},
	}, API.DeleteStack),

	operation(Operation{
		Name:          "DescribeFleets",
		Description:   "Describe fleets",
		DefaultSelect: "Fleets",
		Params: []adapter.Param{
			{Name: "Names", Kind: adapter.KindStringList, Positional: true, Usage: "Fleet names to describe"},
			nextToken(),
		},
	}, API.DescribeFleets),

	operation(Operation{
		Name:          "StartFleet",
		Description:   "Start a fleet",
		DefaultSelect: "^Name",
		Mutating:      true,
		Params:        []adapter.Param{nameParam("Fleet name")},
	}, API.StartFleet),

	operation(Operation{
		Name:          "StopFleet",
		Description:   "Stop a fleet",
		DefaultSelect: "^Name",
		Mutating:      true,
		Params:        []adapter.Param{nameParam("Fleet name")},
	}, API.StopFleet),

	operation(Operation{
		Name:          "ListAssociatedStacks",
		Description:   "List the stacks associated with a fleet",
		DefaultSelect: "Names",
		Params: []adapter.Param{
			{Name: "FleetName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Fleet name"},
			nextToken(),
		},
	}, API.ListAssociatedStacks),

	operation(Operation{
		Name:          "CreateStreamingURL",
		Description:   "Create a temporary streaming URL for a user",
		DefaultSelect: "*",
		Mutating:      true,
		Target:        "UserId",
		Params: []adapter.Param{
			{Name: "UserId", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "User identifier"},
			{Name: "StackName", Kind: adapter.KindString, Required: true, Usage: "Stack name"},
			{Name: "FleetName", Kind: adapter.KindString, Required: true, Usage: "Fleet name"},
			{Name: "ApplicationId", Kind: adapter.KindString, Usage: "Application to launch after the session starts"},
			{Name: "SessionContext", Kind: adapter.KindString, Usage: "Session context passed to the streaming application"},
			{Name: "Validity", Kind: adapter.KindInt, Usage: "Seconds the URL stays valid (1-604800)"},
		},
	}, API.CreateStreamingURL),

	operation(Operation{
		Name:          "DescribeSessions",
		Description:   "Describe the streaming sessions of a stack and fleet",
		DefaultSelect: "Sessions",
		Params: []adapter.Param{
			{Name: "StackName", Kind: adapter.KindString, Required: true, Usage: "Stack name"},
			{Name: "FleetName", Kind: adapter.KindString, Required: true, Usage: "Fleet name"},
			{Name: "UserId", Kind: adapter.KindString, Usage: "Only sessions of this user"},
			authType(false),
			{Name: "Limit", Kind: adapter.KindInt, Usage: "Maximum sessions to return"},
			nextToken(),
		},
	}, API.DescribeSessions),

	operation(Operation{
		Name:          "ExpireSession",
		Description:   "Immediately stop a streaming session",
		DefaultSelect: "^SessionId",
		Mutating:      true,
		Params: []adapter.Param{
			{Name: "SessionId", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Session identifier"},
		},
	}, API.ExpireSession),

	operation(Operation{
		Name:          "DescribeUsers",
		Description:   "Describe users in the user pool",
		DefaultSelect: "Users",
		Params: []adapter.Param{
			authType(true),
			{Name: "MaxResults", Kind: adapter.KindInt, Usage: "Maximum users to return"},
			nextToken(),
		},
	}, API.DescribeUsers),

	operation(Operation{
		Name:          "EnableUser",
		Description:   "Enable a user in the user pool",
		DefaultSelect: "^UserName",
		Mutating:      true,
		Params: []adapter.Param{
			{Name: "UserName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "User email address"},
			authType(true),
		},
	}, API.EnableUser),

	operation(Operation{
		Name:          "DisableUser",
		Description:   "Disable a user in the user pool",
		DefaultSelect: "^UserName",
		Mutating:      true,
		Params: []adapter.Param{
			{Name: "UserName", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "User email address"},
			authType(true),
		},
	}, API.DisableUser),

	operation(Operation{
		Name:          "DescribeAppBlockBuilders",
		Description:   "Describe app block builders",
		DefaultSelect: "AppBlockBuilders",
		Params: []adapter.Param{
			{Name: "Names", Kind: adapter.KindStringList, Positional: true, Usage: "App block builder names"},
			{Name: "MaxResults", Kind: adapter.KindInt, Usage: "Maximum results to return"},
			nextToken(),
		},
	}, API.DescribeAppBlockBuilders),

	operation(Operation{
		Name:          "StartAppBlockBuilder",
		Description:   "Start an app block builder",
		DefaultSelect: "AppBlockBuilder",
		Mutating:      true,
		Params:        []adapter.Param{nameParam("App block builder name")},
	}, API.StartAppBlockBuilder),

	operation(Operation{
		Name:          "StopAppBlockBuilder",
		Description:   "Stop an app block builder",
		DefaultSelect: "AppBlockBuilder",
		Mutating:      true,
		Params:        []adapter.Param{nameParam("App block builder name")},
	}, API.StopAppBlockBuilder),

	operation(Operation{
		Name:          "DescribeImages",
		Description:   "Describe images",
		DefaultSelect: "Images",
		Params: []adapter.Param{
			{Name: "Names", Kind: adapter.KindStringList, Positional: true, Usage: "Image names"},
			{Name: "Arns", Kind: adapter.KindStringList, Usage: "Image ARNs"},
			{Name: "Type", Kind: adapter.KindEnum, Enum: visibilityTypes, Usage: "Image visibility"},
			{Name: "MaxResults", Kind: adapter.KindInt, Usage: "Maximum results to return"},
			nextToken(),
		},
	}, API.DescribeImages),

	operation(Operation{
		Name:          "ListTagsForResource",
		Description:   "List the tags of an AppStream resource",
		DefaultSelect: "Tags",
		Params: []adapter.Param{
			{Name: "ResourceArn", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Resource ARN"},
		},
	}, API.ListTagsForResource),

	operation(Operation{
		Name:          "TagResource",
		Description:   "Add or overwrite tags on an AppStream resource",
		DefaultSelect: "^ResourceArn",
		Mutating:      true,
		Params: []adapter.Param{
			{Name: "ResourceArn", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Resource ARN"},
			{Name: "Tags", Kind: adapter.KindStringMap, Required: true, Usage: "Tags as key=value pairs"},
		},
	}, API.TagResource),

	operation(Operation{
		Name:          "UntagResource",
		Description:   "Remove tags from an AppStream resource",
		DefaultSelect: "^ResourceArn",
		Mutating:      true,
		Params: []adapter.Param{
			{Name: "ResourceArn", Kind: adapter.KindString, Required: true, Positional: true, Pipeline: true, Usage: "Resource ARN"},
			{Name: "TagKeys", Kind: adapter.KindStringList, Required: true, Usage: "Tag keys to remove"},
		},
	}, API.UntagResource),
}

// Operations returns the AppStream operation catalogue sorted by name
func Operations() []*Operation {
	ops := make([]*Operation, len(catalogue))
	copy(ops, catalogue)
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name < ops[j].Name
	})
	return ops
}

// LookupOperation finds an operation by service name or command name
func LookupOperation(name string) (*Operation, bool) {
	for _, op := range catalogue {
		if strings.EqualFold(op.Name, name) || op.CommandName() == strings.ToLower(name) {
			return op, true
		}
	}
	return nil, false
}
