package sqlinline

// Inline SQL for the listing job queue and asset ledger. Each statement
// carries a marker line consumed by infra.SQLRunner for logging.

const QEnsureSchema = `--sql 3c1f0a52-72cd-4e8a-9f10-6b5de2a4c7d1
create table if not exists listing_jobs (
    id uuid primary key default gen_random_uuid(),
    status text not null default 'QUEUED',
    inputs_json jsonb not null,
    result_json jsonb,
    workspace_dir text,
    error_message text,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists idx_listing_jobs_status_created
    on listing_jobs (status, created_at);
create table if not exists listing_assets (
    id uuid primary key default gen_random_uuid(),
    job_id uuid not null references listing_jobs (id),
    kind text not null,
    path text not null,
    width int not null default 0,
    height int not null default 0,
    bytes bigint not null default 0,
    created_at timestamptz not null default now()
);
create index if not exists idx_listing_assets_job on listing_assets (job_id);
`

const QEnqueueJob = `--sql 9d2b7e41-5a0c-4f3d-8c6e-1f9a3b5d7c20
insert into listing_jobs (inputs_json)
values ($1)
returning id;
`

const QClaimJob = `--sql 6e8a1c93-2f4b-4d7a-b5c8-0d3e9f612a84
with next_job as (
    select id
    from listing_jobs
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update listing_jobs
    set status = 'RUNNING', updated_at = now()
    where id in (select id from next_job)
    returning id, inputs_json
)
select * from updated;
`

const QMarkJobSucceeded = `--sql b4f6d2a8-1e3c-45b9-a7d0-8c2f5e917b36
update listing_jobs
set status = 'SUCCEEDED',
    result_json = $2,
    workspace_dir = $3,
    error_message = null,
    updated_at = now()
where id = $1;
`

const QMarkJobFailed = `--sql f1a3c5e7-9b2d-4680-8e4f-7a1c3d5b9e02
update listing_jobs
set status = 'FAILED',
    error_message = $2,
    updated_at = now()
where id = $1;
`

const QSelectJob = `--sql 2a8c4e60-7d1f-4b93-9c5a-e3f7b1d8a642
select id, status, inputs_json, coalesce(result_json, 'null'::jsonb),
       coalesce(workspace_dir, ''), coalesce(error_message, ''),
       created_at, updated_at
from listing_jobs
where id = $1;
`

const QInsertAsset = `--sql 8b0d2f64-3a5c-4e17-bd98-5c7e9a1f3d26
insert into listing_assets (job_id, kind, path, width, height, bytes)
values ($1, $2, $3, $4, $5, $6);
`

const QListJobAssets = `--sql 5d7f9b13-6c8e-4a20-9f4b-2e6a8c0d4f68
select id, kind, path, width, height, bytes, created_at
from listing_assets
where job_id = $1
order by created_at asc, path asc;
`
