package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/appstream"
)

// API is the subset of the AppStream client the operation catalogue uses.
// Tests substitute a fake.
type API interface {
	AssociateApplicationFleet(ctx context.Context, params *appstream.AssociateApplicationFleetInput, optFns ...func(*appstream.Options)) (*appstream.AssociateApplicationFleetOutput, error)
	BatchAssociateUserStack(ctx context.Context, params *appstream.BatchAssociateUserStackInput, optFns ...func(*appstream.Options)) (*appstream.BatchAssociateUserStackOutput, error)
	BatchDisassociateUserStack(ctx context.Context, params *appstream.BatchDisassociateUserStackInput, optFns ...func(*appstream.Options)) (*appstream.BatchDisassociateUserStackOutput, error)
	CreateAppBlockBuilderStreamingURL(ctx context.Context, params *appstream.CreateAppBlockBuilderStreamingURLInput, optFns ...func(*appstream.Options)) (*appstream.CreateAppBlockBuilderStreamingURLOutput, error)
	CreateStreamingURL(ctx context.Context, params *appstream.CreateStreamingURLInput, optFns ...func(*appstream.Options)) (*appstream.CreateStreamingURLOutput, error)
	DeleteStack(ctx context.Context, params *appstream.DeleteStackInput, optFns ...func(*appstream.Options)) (*appstream.DeleteStackOutput, error)
	DescribeAppBlockBuilders(ctx context.Context, params *appstream.DescribeAppBlockBuildersInput, optFns ...func(*appstream.Options)) (*appstream.DescribeAppBlockBuildersOutput, error)
	DescribeFleets(ctx context.Context, params *appstream.DescribeFleetsInput, optFns ...func(*appstream.Options)) (*appstream.DescribeFleetsOutput, error)
	DescribeImages(ctx context.Context, params *appstream.DescribeImagesInput, optFns ...func(*appstream.Options)) (*appstream.DescribeImagesOutput, error)
	DescribeSessions(ctx context.Context, params *appstream.DescribeSessionsInput, optFns ...func(*appstream.Options)) (*appstream.DescribeSessionsOutput, error)
	DescribeStacks(ctx context.Context, params *appstream.DescribeStacksInput, optFns ...func(*appstream.Options)) (*appstream.DescribeStacksOutput, error)
	DescribeThemeForStack(ctx context.Context, params *appstream.DescribeThemeForStackInput, optFns ...func(*appstream.Options)) (*appstream.DescribeThemeForStackOutput, error)
	DescribeUsers(ctx context.Context, params *appstream.DescribeUsersInput, optFns ...func(*appstream.Options)) (*appstream.DescribeUsersOutput, error)
	DisableUser(ctx context.Context, params *appstream.DisableUserInput, optFns ...func(*appstream.Options)) (*appstream.DisableUserOutput, error)
	DisassociateApplicationFleet(ctx context.Context, params *appstream.DisassociateApplicationFleetInput, optFns ...func(*appstream.Options)) (*appstream.DisassociateApplicationFleetOutput, error)
	EnableUser(ctx context.Context, params *appstream.EnableUserInput, optFns ...func(*appstream.Options)) (*appstream.EnableUserOutput, error)
	ExpireSession(ctx context.Context, params *appstream.ExpireSessionInput, optFns ...func(*appstream.Options)) (*appstream.ExpireSessionOutput, error)
	ListAssociatedStacks(ctx context.Context, params *appstream.ListAssociatedStacksInput, optFns ...func(*appstream.Options)) (*appstream.ListAssociatedStacksOutput, error)
	ListTagsForResource(ctx context.Context, params *appstream.ListTagsForResourceInput, optFns ...func(*appstream.Options)) (*appstream.ListTagsForResourceOutput, error)
	StartAppBlockBuilder(ctx context.Context, params *appstream.StartAppBlockBuilderInput, optFns ...func(*appstream.Options)) (*appstream.StartAppBlockBuilderOutput, error)
	StartFleet(ctx context.Context, params *appstream.StartFleetInput, optFns ...func(*appstream.Options)) (*appstream.StartFleetOutput, error)
	StopAppBlockBuilder(ctx context.Context, params *appstream.StopAppBlockBuilderInput, optFns ...func(*appstream.Options)) (*appstream.StopAppBlockBuilderOutput, error)
	StopFleet(ctx context.Context, params *appstream.StopFleetInput, optFns ...func(*appstream.Options)) (*appstream.StopFleetOutput, error)
	TagResource(ctx context.Context, params *appstream.TagResourceInput, optFns ...func(*appstream.Options)) (*appstream.TagResourceOutput, error)
	UntagResource(ctx context.Context, params *appstream.UntagResourceInput, optFns ...func(*appstream.Options)) (*appstream.UntagResourceOutput, error)
}

var _ API = (*appstream.Client)(nil)
